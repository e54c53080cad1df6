package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danjamk/toolgate/pkg/api"
)

func TestDetectBoundary_ExplicitRoot(t *testing.T) {
	root := t.TempDir()
	b, err := DetectBoundary(&api.Config{ProjectRoot: root})
	require.NoError(t, err)
	assert.Equal(t, root, b.Root)
}

func TestFindRoot_WalksUpToMarker(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	nested := filepath.Join(root, "src", "pkg")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	assert.Equal(t, root, findRoot(nested))
}

func TestFindRoot_NoMarkerFallsBackToStart(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, dir, findRoot(dir))
}

func TestBoundary_CheckPath(t *testing.T) {
	root := t.TempDir()
	b := &Boundary{Root: root}

	tests := []struct {
		name    string
		path    string
		verdict Verdict
	}{
		{"inside root", filepath.Join(root, "src", "app.py"), Neutral},
		{"root itself", root, Neutral},
		{"relative path", "src/app.py", Neutral},
		{"relative traversal out", "../other/app.py", Block},
		{"outside root", "/home/other/notes.txt", Block},
		{"etc", "/etc/hosts", Block},
		{"proc", "/proc/self/environ", Block},
		{"ssh dir", filepath.Join(root, ".ssh", "config"), Block},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := b.Check(FileWrite(tt.path))
			assert.Equal(t, tt.verdict, d.Verdict, "path: %s", tt.path)
			if tt.verdict == Block {
				assert.Contains(t, d.Reason, "PROJECT BOUNDARY: ")
			}
		})
	}
}

func TestBoundary_CheckCommand(t *testing.T) {
	root := t.TempDir()
	b := &Boundary{Root: root}

	tests := []struct {
		name    string
		command string
		verdict Verdict
	}{
		{"plain command", "make test", Neutral},
		{"cd inside root", "cd " + filepath.Join(root, "src"), Neutral},
		{"cd relative", "cd src && make test", Neutral},
		{"cd outside root", "cd /home/other", Block},
		{"cd outside after chain", "make test && cd /opt/other", Block},
		{"copy escaping via dotdot", "cp secrets.txt ../outside/", Block},
		{"move escaping via dotdot", "mv build ../artifacts", Block},
		{"system dir argument", "cat /etc/passwd", Block},
		{"ssh dir argument", "ls ~/.ssh/", Block},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := b.Check(ShellCommand(tt.command))
			assert.Equal(t, tt.verdict, d.Verdict, "command: %s", tt.command)
		})
	}
}

func TestBoundary_SkipsNonPathOperations(t *testing.T) {
	b := &Boundary{Root: t.TempDir()}
	assert.Equal(t, Neutral, b.Check(Operation{Kind: Kind(99)}).Verdict)
}
