package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetNameFor(t *testing.T) {
	tests := []struct {
		name    string
		goos    string
		goarch  string
		want    string
		wantErr bool
	}{
		{"darwin amd64", "darwin", "amd64", "ethiq_Darwin_all.tar.gz", false},
		{"darwin arm64", "darwin", "arm64", "ethiq_Darwin_all.tar.gz", false},
		{"linux amd64", "linux", "amd64", "ethiq_Linux_x86_64.tar.gz", false},
		{"linux arm64", "linux", "arm64", "ethiq_Linux_arm64.tar.gz", false},
		{"linux 386", "linux", "386", "ethiq_Linux_i386.tar.gz", false},
		{"windows amd64", "windows", "amd64", "ethiq_Windows_x86_64.zip", false},
		{"windows arm64", "windows", "arm64", "ethiq_Windows_arm64.zip", false},
		{"unsupported os", "freebsd", "amd64", "", true},
		{"unsupported arch", "linux", "mips", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := assetNameFor(tt.goos, tt.goarch)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChecksums(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{
			name:  "normal",
			input: "abc123  ethiq_Darwin_all.tar.gz\ndef456  ethiq_Linux_x86_64.tar.gz\n",
			want: map[string]string{
				"ethiq_Darwin_all.tar.gz":    "abc123",
				"ethiq_Linux_x86_64.tar.gz": "def456",
			},
		},
		{
			name:  "binary mode and upper case",
			input: "ABC123 *ethiq_Windows_x86_64.zip\n",
			want:  map[string]string{"ethiq_Windows_x86_64.zip": "abc123"},
		},
		{
			name:  "empty",
			input: "",
			want:  map[string]string{},
		},
		{
			name:  "malformed lines skipped",
			input: "abc123  file.tar.gz\nbadline\n  \nfoo  bar  baz\nghi789  other.tar.gz\n",
			want: map[string]string{
				"file.tar.gz":  "abc123",
				"other.tar.gz": "ghi789",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseChecksums([]byte(tt.input))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerifyChecksum(t *testing.T) {
	data := []byte("hello world")
	h := sha256.Sum256(data)
	correctHex := hex.EncodeToString(h[:])

	t.Run("match", func(t *testing.T) {
		assert.NoError(t, verifyChecksum(data, correctHex))
	})

	t.Run("mismatch", func(t *testing.T) {
		err := verifyChecksum(data, "0000000000000000000000000000000000000000000000000000000000000000")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrChecksum)
	})
}

func TestExtractBinary(t *testing.T) {
	binaryContent := []byte("#!/bin/sh\necho ethiq")

	t.Run("tar.gz", func(t *testing.T) {
		archive := buildTarGz(t, "ethiq", binaryContent)
		got, err := extractBinary(archive, "ethiq_Darwin_all.tar.gz")
		require.NoError(t, err)
		assert.Equal(t, binaryContent, got)
	})

	t.Run("zip", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		w, err := zw.Create("ethiq.exe")
		require.NoError(t, err)
		_, err = w.Write(binaryContent)
		require.NoError(t, err)
		require.NoError(t, zw.Close())

		got, err := extractBinary(buf.Bytes(), "ethiq_Windows_x86_64.zip")
		require.NoError(t, err)
		assert.Equal(t, binaryContent, got)
	})

	t.Run("missing binary", func(t *testing.T) {
		archive := buildTarGz(t, "other-file", binaryContent)
		_, err := extractBinary(archive, "ethiq_Darwin_all.tar.gz")
		require.Error(t, err)
		assert.ErrorIs(t, err, errNotInArchive)
	})
}

func TestApplyUpdate(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "ethiq")

	require.NoError(t, os.WriteFile(target, []byte("old"), 0755))

	newData := []byte("new-binary-content")
	h := sha256.Sum256(newData)

	require.NoError(t, applyUpdate(newData, target, h[:]))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, newData, got)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

// fakeRelease serves a fake GitHub API plus release downloads for tag. A nil
// checksums map omits checksums.txt; a nil archive omits the asset.
type fakeRelease struct {
	tag       string
	asset     string
	archive   []byte
	checksums map[string]string
}

func (r fakeRelease) server(t *testing.T) *httptest.Server {
	t.Helper()
	download := "/abhisek/ethiq/releases/download/" + r.tag + "/"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch p := req.URL.Path; {
		case p == "/repos/abhisek/ethiq/releases/latest":
			fmt.Fprintf(w, `{"tag_name":%q,"html_url":"https://example.com/%s"}`, r.tag, r.tag)
		case p == download+r.asset && r.archive != nil:
			_, _ = w.Write(r.archive)
		case p == download+"checksums.txt" && r.checksums != nil:
			for name, sum := range r.checksums {
				fmt.Fprintf(w, "%s  %s\n", sum, name)
			}
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestUpdate(t *testing.T) {
	const asset = "ethiq_Darwin_all.tar.gz"
	binaryContent := []byte("new-ethiq-binary")
	archive := buildTarGz(t, "ethiq", binaryContent)
	sum := sha256.Sum256(archive)
	good := map[string]string{asset: hex.EncodeToString(sum[:])}
	bad := map[string]string{asset: strings.Repeat("0", 64)}

	tests := []struct {
		name      string
		current   string
		rel       fakeRelease
		wantErr   error
		errSubstr string
	}{
		{"happy path", "v1.0.0", fakeRelease{"v2.0.0", asset, archive, good}, nil, ""},
		{"dev build", "(devel)", fakeRelease{"v2.0.0", asset, archive, good}, ErrDevBuild, ""},
		{"already latest", "v1.0.0", fakeRelease{"v1.0.0", asset, archive, good}, ErrAlreadyLatest, ""},
		{"checksum mismatch", "v1.0.0", fakeRelease{"v2.0.0", asset, archive, bad}, ErrChecksum, ""},
		{"missing checksum entry", "v1.0.0", fakeRelease{"v2.0.0", asset, archive, map[string]string{}}, nil, "no checksum"},
		{"download failure", "v1.0.0", fakeRelease{"v2.0.0", asset, nil, good}, nil, "download archive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			execPath := filepath.Join(t.TempDir(), "ethiq")
			require.NoError(t, os.WriteFile(execPath, []byte("old"), 0755))

			srv := tt.rel.server(t)
			checker := NewChecker(
				WithBaseURL(srv.URL),
				WithDownloadBaseURL(srv.URL),
				withExecPath(func() (string, error) { return execPath, nil }),
				withAsset(asset),
			)

			var stages []Stage
			err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: tt.current}, func(p UpdateProgress) {
				stages = append(stages, p.Stage)
			})

			got, readErr := os.ReadFile(execPath)
			require.NoError(t, readErr)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, []byte("old"), got)
			case tt.errSubstr != "":
				assert.ErrorContains(t, err, tt.errSubstr)
				assert.Equal(t, []byte("old"), got)
			default:
				require.NoError(t, err)
				assert.Equal(t, binaryContent, got)
				assert.Equal(t, []Stage{StageCheck, StageDownload, StageVerify, StageExtract, StageApply, StageDone}, stages)
			}
		})
	}
}

func TestUpdate_NilProgress(t *testing.T) {
	err := NewChecker().Update(context.Background(), &UpdateInput{}, nil)
	assert.ErrorIs(t, err, ErrDevBuild)
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		current string
		want    bool
		wantErr bool
	}{
		{"newer release", "v1.3.0", "v1.2.9", true, false},
		{"same release", "v1.2.0", "1.2.0", false, false},
		{"older release", "v1.1.0", "v1.2.0", false, false},
		{"dev build", "v1.2.0", "(devel)", false, false},
		{"bad tag", "nightly", "v1.0.0", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/repos/abhisek/ethiq/releases/latest", r.URL.Path)
				fmt.Fprintf(w, `{"tag_name":%q,"html_url":"https://example.com/r"}`, tt.tag)
			}))
			defer server.Close()

			res, err := NewChecker(WithBaseURL(server.URL)).Check(context.Background(), &CheckInput{Version: tt.current})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.UpdateAvailable)
			assert.Equal(t, tt.tag, res.LatestVersion)
		})
	}
}

func TestCheck_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := NewChecker(WithBaseURL(server.URL)).Check(context.Background(), &CheckInput{Version: "v1.0.0"})
	assert.ErrorContains(t, err, "HTTP 403")
}

// buildTarGz creates a tar.gz archive containing a single file.
func buildTarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: name,
		Size: int64(len(content)),
		Mode: 0755,
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func TestApplyUpdate_HashMismatchKeepsTarget(t *testing.T) {
	target := filepath.Join(t.TempDir(), "ethiq")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0755))

	err := applyUpdate([]byte("new"), target, make([]byte, sha256.Size))
	assert.ErrorIs(t, err, ErrChecksum)

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), got)

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be cleaned up")
}
