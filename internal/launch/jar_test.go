package launch

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/chainguard-dev/mvnlaunch/internal/coordinate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildClassFile fabricates a minimal valid .class file with the given
// major version and, optionally, a public static void main(String[]) method.
func buildClassFile(t *testing.T, major uint16, withMain bool) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := func(v interface{}) {
		require.NoError(t, binary.Write(&buf, binary.BigEndian, v))
	}
	w(uint32(0xCAFEBABE))
	w(uint16(0))     // minor
	w(major)         // major

	// Constant pool: just enough Utf8 entries for "main" and its descriptor
	// when withMain, plus padding entries otherwise. Pool count is entries+1.
	var utf8s []string
	if withMain {
		utf8s = []string{"main", "([Ljava/lang/String;)V"}
	}
	w(uint16(len(utf8s) + 1))
	for _, s := range utf8s {
		buf.WriteByte(1) // CONSTANT_Utf8
		w(uint16(len(s)))
		buf.WriteString(s)
	}

	w(uint16(0x0021)) // access_flags (public + super)
	w(uint16(0))       // this_class
	w(uint16(0))       // super_class
	w(uint16(0))       // interfaces_count
	w(uint16(0))       // fields_count

	if withMain {
		w(uint16(1)) // methods_count
		w(uint16(0x0009)) // access_flags: public static
		w(uint16(1))      // name_index -> "main"
		w(uint16(2))      // descriptor_index -> "([Ljava/lang/String;)V"
		w(uint16(0))      // attributes_count
	} else {
		w(uint16(0)) // methods_count
	}

	return buf.Bytes()
}

func writeJAR(t *testing.T, dir, name string, entries map[string][]byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for entryName, data := range entries {
		w, err := zw.Create(entryName)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestInspectJARModuleInfo(t *testing.T) {
	dir := t.TempDir()
	path := writeJAR(t, dir, "modular.jar", map[string][]byte{
		"module-info.class": buildClassFile(t, 55, false),
		"com/example/App.class": buildClassFile(t, 55, true),
	})
	info, err := InspectJAR(path, coordinate.Coordinate{GroupID: "g", ArtifactID: "modular"})
	require.NoError(t, err)
	assert.True(t, info.HasModuleInfo)
	assert.Equal(t, 55, info.MaxClassMajor)
	assert.Contains(t, info.MainMethodCandidates, "com.example.App")
}

func TestInspectJARAutomaticModuleName(t *testing.T) {
	manifest := "Manifest-Version: 1.0\nAutomatic-Module-Name: com.example.widget\nMain-Class: com.example.Main\n"
	dir := t.TempDir()
	path := writeJAR(t, dir, "plain.jar", map[string][]byte{
		"META-INF/MANIFEST.MF": []byte(manifest),
		"com/example/Main.class": buildClassFile(t, 52, false),
	})
	info, err := InspectJAR(path, coordinate.Coordinate{GroupID: "g", ArtifactID: "plain"})
	require.NoError(t, err)
	assert.False(t, info.HasModuleInfo)
	assert.Equal(t, "com.example.widget", info.AutomaticModuleName)
	assert.Equal(t, "com.example.Main", info.MainClassManifest)
	assert.Equal(t, 52, info.MaxClassMajor)
}

func TestClassifyOverrideWins(t *testing.T) {
	info := JarInfo{HasModuleInfo: true}
	assert.Equal(t, coordinate.PlacementClassPath, Classify(info, coordinate.PlacementClassPath))
	assert.Equal(t, coordinate.PlacementModulePath, Classify(JarInfo{}, coordinate.PlacementModulePath))
}

func TestClassifyAuto(t *testing.T) {
	assert.Equal(t, coordinate.PlacementModulePath, Classify(JarInfo{HasModuleInfo: true}, coordinate.PlacementAuto))
	assert.Equal(t, coordinate.PlacementModulePath, Classify(JarInfo{AutomaticModuleName: "x"}, coordinate.PlacementAuto))
	assert.Equal(t, coordinate.PlacementClassPath, Classify(JarInfo{}, coordinate.PlacementAuto))
}

func TestRequiredJavaVersion(t *testing.T) {
	jars := []JarInfo{{MaxClassMajor: 52}, {MaxClassMajor: 55}}
	assert.Equal(t, 11, RequiredJavaVersion(jars))
}

func TestInferMainClassFromManifest(t *testing.T) {
	jars := []JarInfo{{MainClassManifest: "org.python.util.jython"}}
	mc, err := InferMainClass(jars)
	require.NoError(t, err)
	assert.Equal(t, "org.python.util.jython", mc)
}

func TestInferMainClassAmbiguous(t *testing.T) {
	jars := []JarInfo{{MainClassManifest: "a.Main"}, {MainClassManifest: "b.Main"}}
	_, err := InferMainClass(jars)
	assert.Error(t, err)
}

func TestInferMainClassScanFallback(t *testing.T) {
	jars := []JarInfo{{MainMethodCandidates: []string{"com.example.App"}}}
	mc, err := InferMainClass(jars)
	require.NoError(t, err)
	assert.Equal(t, "com.example.App", mc)
}

func TestBuildArgsOrder(t *testing.T) {
	args := BuildArgs(Options{
		GCPreset:   "G1",
		MinHeap:    "512m",
		MaxHeap:    "2g",
		Properties: map[string]string{"foo": "bar"},
		ClassPath:  []string{"a.jar", "b.jar"},
		MainClass:  "com.example.Main",
		Args:       []string{"--flag"},
	})
	assert.Equal(t, []string{
		"-XX:+UseG1GC", "-Xms512m", "-Xmx2g", "-Dfoo=bar",
		"-cp", "a.jar" + string(os.PathListSeparator) + "b.jar",
		"com.example.Main", "--flag",
	}, args)
}
