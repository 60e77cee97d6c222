package launch

import (
	"encoding/binary"
	"fmt"
	"io"
)

// classFileInfo is what the Launch Planner needs out of one .class
// entry: its bytecode major version (spec.md §4.7's Java version
// inference) and whether it declares `public static void main(String[])`
// (spec.md §4.7's main-class inference fallback).
type classFileInfo struct {
	MajorVersion  int
	HasMainMethod bool
}

const (
	accPublic = 0x0001
	accStatic = 0x0008
)

// parseClassFile reads just enough of the JVM class file format
// (magic, version, constant pool, then the method table) to extract the
// major version and detect a public static main(String[]) method,
// without needing a full bytecode verifier.
func parseClassFile(r io.Reader) (classFileInfo, error) {
	data, err := io.ReadAll(io.LimitReader(r, 8<<20)) // class files are small; 8MiB is a generous ceiling
	if err != nil {
		return classFileInfo{}, err
	}
	cur := &cursor{data: data}

	magic, err := cur.u32()
	if err != nil {
		return classFileInfo{}, err
	}
	if magic != 0xCAFEBABE {
		return classFileInfo{}, fmt.Errorf("not a class file: bad magic %x", magic)
	}
	if _, err := cur.u16(); err != nil { // minor version
		return classFileInfo{}, err
	}
	major, err := cur.u16()
	if err != nil {
		return classFileInfo{}, err
	}

	utf8, err := parseConstantPool(cur)
	if err != nil {
		return classFileInfo{}, err
	}

	if _, err := cur.u16(); err != nil { // access_flags
		return classFileInfo{}, err
	}
	if _, err := cur.u16(); err != nil { // this_class
		return classFileInfo{}, err
	}
	if _, err := cur.u16(); err != nil { // super_class
		return classFileInfo{}, err
	}

	ifaceCount, err := cur.u16()
	if err != nil {
		return classFileInfo{}, err
	}
	if err := cur.skip(int(ifaceCount) * 2); err != nil {
		return classFileInfo{}, err
	}

	if err := skipMembers(cur); err != nil { // fields
		return classFileInfo{}, err
	}

	hasMain, err := scanMethods(cur, utf8)
	if err != nil {
		return classFileInfo{}, err
	}

	return classFileInfo{MajorVersion: int(major), HasMainMethod: hasMain}, nil
}

// parseConstantPool walks the constant pool just far enough to record
// every CONSTANT_Utf8 entry's text, keyed by its 1-based pool index; all
// other entry kinds are skipped by their fixed or tag-determined size.
func parseConstantPool(cur *cursor) (map[int]string, error) {
	count, err := cur.u16()
	if err != nil {
		return nil, err
	}
	utf8 := map[int]string{}
	for i := 1; i < int(count); i++ {
		tag, err := cur.u8()
		if err != nil {
			return nil, err
		}
		switch tag {
		case 1: // Utf8
			n, err := cur.u16()
			if err != nil {
				return nil, err
			}
			b, err := cur.bytes(int(n))
			if err != nil {
				return nil, err
			}
			utf8[i] = string(b)
		case 7, 8, 16, 19, 20: // Class, String, MethodType, Module, Package
			if err := cur.skip(2); err != nil {
				return nil, err
			}
		case 15: // MethodHandle
			if err := cur.skip(3); err != nil {
				return nil, err
			}
		case 3, 4, 9, 10, 11, 12, 17, 18: // Integer, Float, Fieldref, Methodref, IfaceMethodref, NameAndType, Dynamic, InvokeDynamic
			if err := cur.skip(4); err != nil {
				return nil, err
			}
		case 5, 6: // Long, Double: 8 bytes, occupy two constant pool indices
			if err := cur.skip(8); err != nil {
				return nil, err
			}
			i++
		default:
			return nil, fmt.Errorf("unrecognized constant pool tag %d", tag)
		}
	}
	return utf8, nil
}

// skipMembers skips a fields_info or methods_info table whose entries
// carry access_flags/name_index/descriptor_index (2 bytes each) plus a
// variable-length attributes table.
func skipMembers(cur *cursor) error {
	count, err := cur.u16()
	if err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		if err := cur.skip(6); err != nil { // access_flags, name_index, descriptor_index
			return err
		}
		if err := skipAttributes(cur); err != nil {
			return err
		}
	}
	return nil
}

// scanMethods walks the methods table looking for a public static
// method named "main" with descriptor "([Ljava/lang/String;)V".
func scanMethods(cur *cursor, utf8 map[int]string) (bool, error) {
	count, err := cur.u16()
	if err != nil {
		return false, err
	}
	found := false
	for i := 0; i < int(count); i++ {
		access, err := cur.u16()
		if err != nil {
			return false, err
		}
		nameIdx, err := cur.u16()
		if err != nil {
			return false, err
		}
		descIdx, err := cur.u16()
		if err != nil {
			return false, err
		}
		if access&(accPublic|accStatic) == (accPublic|accStatic) &&
			utf8[int(nameIdx)] == "main" && utf8[int(descIdx)] == "([Ljava/lang/String;)V" {
			found = true
		}
		if err := skipAttributes(cur); err != nil {
			return false, err
		}
	}
	return found, nil
}

func skipAttributes(cur *cursor) error {
	count, err := cur.u16()
	if err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		if err := cur.skip(2); err != nil { // attribute_name_index
			return err
		}
		length, err := cur.u32()
		if err != nil {
			return err
		}
		if err := cur.skip(int(length)); err != nil {
			return err
		}
	}
	return nil
}

// cursor is a minimal big-endian byte reader over an in-memory buffer.
type cursor struct {
	data []byte
	pos  int
}

func (c *cursor) u8() (byte, error) {
	if c.pos+1 > len(c.data) {
		return 0, io.ErrUnexpectedEOF
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

func (c *cursor) u16() (uint16, error) {
	if c.pos+2 > len(c.data) {
		return 0, io.ErrUnexpectedEOF
	}
	v := binary.BigEndian.Uint16(c.data[c.pos:])
	c.pos += 2
	return v, nil
}

func (c *cursor) u32() (uint32, error) {
	if c.pos+4 > len(c.data) {
		return 0, io.ErrUnexpectedEOF
	}
	v := binary.BigEndian.Uint32(c.data[c.pos:])
	c.pos += 4
	return v, nil
}

func (c *cursor) bytes(n int) ([]byte, error) {
	if c.pos+n > len(c.data) {
		return nil, io.ErrUnexpectedEOF
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) skip(n int) error {
	if c.pos+n > len(c.data) {
		return io.ErrUnexpectedEOF
	}
	c.pos += n
	return nil
}
