package storage

import "fmt"

// RemoteMirror builds read-only links to the remote host that mirrors MCU
// documents. The mirror is never written to by this service; links are used
// in exports and as a download fallback when the local blob is absent.
type RemoteMirror struct {
	owner  string
	repo   string
	branch string
}

// NewRemoteMirror constructs a mirror link builder.
func NewRemoteMirror(owner, repo, branch string) *RemoteMirror {
	if branch == "" {
		branch = "main"
	}
	return &RemoteMirror{owner: owner, repo: repo, branch: branch}
}

// Configured reports whether a mirror host has been set up.
func (m *RemoteMirror) Configured() bool {
	return m.owner != "" && m.repo != ""
}

// URL returns the raw-content link for an employee's document.
func (m *RemoteMirror) URL(nik, fileName string) string {
	if nik == "" || fileName == "" {
		return ""
	}
	return fmt.Sprintf("https://github.com/%s/%s/blob/%s/mcu_files/%s/%s?raw=true",
		m.owner, m.repo, m.branch, nik, fileName)
}
