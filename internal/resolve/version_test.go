package resolve

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chainguard-dev/mvnlaunch/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionResolverConcretePassthrough(t *testing.T) {
	vr := &VersionResolver{}
	v, err := vr.Resolve(context.Background(), "g", "a", "1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", v)
}

// TestCrossRepositoryLatest exercises spec.md §8 scenario 5: repository M
// publishes a release 1.54p, repository S publishes 1.48q and a
// 1.x-SNAPSHOT; RELEASE and LATEST both resolve to 1.54p by comparing
// versions across repositories rather than trusting either repository's
// own notion of "latest".
func TestCrossRepositoryLatest(t *testing.T) {
	repoM := newMetadataServer(t, `<metadata><groupId>g</groupId><artifactId>ij</artifactId>
		<versioning><release>1.54p</release><versions><version>1.54p</version></versions></versioning></metadata>`)
	repoS := newMetadataServer(t, `<metadata><groupId>g</groupId><artifactId>ij</artifactId>
		<versioning><latest>1.x-SNAPSHOT</latest><versions><version>1.48q</version><version>1.x-SNAPSHOT</version></versions></versioning></metadata>`)

	dir := t.TempDir()
	client := repository.NewClient([]repository.Repository{
		{ID: "m", URL: repoM},
		{ID: "s", URL: repoS},
	}, dir, repository.Options{})
	vr := &VersionResolver{Client: client}

	release, err := vr.Resolve(context.Background(), "g", "ij", "RELEASE")
	require.NoError(t, err)
	assert.Equal(t, "1.54p", release)

	latest, err := vr.Resolve(context.Background(), "g", "ij", "LATEST")
	require.NoError(t, err)
	assert.Equal(t, "1.54p", latest)
}

func newMetadataServer(t *testing.T, body string) string {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/g/ij/maven-metadata.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}
