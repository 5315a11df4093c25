package remote

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakePusher struct {
	ops       []string
	ensureErr error
	copyErr   error
}

func (f *fakePusher) EnsureDir(_ context.Context, host, dir string, mode fs.FileMode) error {
	f.ops = append(f.ops, "ensure "+host+" "+dir+" "+mode.String())
	return f.ensureErr
}

func (f *fakePusher) CopyFile(_ context.Context, host, src, dst string, mode fs.FileMode) error {
	f.ops = append(f.ops, "copy "+host+" "+src+" "+dst+" "+mode.String())
	return f.copyErr
}

func TestReplicator_Replicate(t *testing.T) {
	pusher := &fakePusher{}
	r := NewReplicator(pusher, "", nil)

	if err := r.Replicate(context.Background(), "web01", "/tmp/audit/web01_20240309_140000.json"); err != nil {
		t.Fatalf("Replicate failed: %v", err)
	}

	want := []string{
		"ensure web01 /var/log/ansible_audit -rwx------",
		"copy web01 /tmp/audit/web01_20240309_140000.json /var/log/ansible_audit/web01_20240309_140000.json -rw-------",
	}
	if diff := cmp.Diff(want, pusher.ops); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
}

func TestReplicator_EnsureDirFailureSkipsCopy(t *testing.T) {
	pusher := &fakePusher{ensureErr: errors.New("unreachable")}
	r := NewReplicator(pusher, "/srv/audit", nil)

	err := r.Replicate(context.Background(), "web01", "/tmp/audit/web01_20240309_140000.json")
	if err == nil {
		t.Fatal("expected error")
	}
	if len(pusher.ops) != 1 {
		t.Errorf("expected only the ensure step, got %v", pusher.ops)
	}
}

func TestReplicator_CustomDir(t *testing.T) {
	r := NewReplicator(&fakePusher{}, "/srv/audit", nil)

	if got := r.Destination("/tmp/x/db01_20240309_140000.json"); got != "/srv/audit/db01_20240309_140000.json" {
		t.Errorf("unexpected destination %q", got)
	}
}
