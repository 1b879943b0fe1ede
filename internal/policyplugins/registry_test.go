package policyplugins

import (
	"testing"

	"github.com/Voskan/syncframe/pkg/capture"
)

func TestBuild_KnownPolicyNames(t *testing.T) {
	for _, name := range []string{"before", "any-before", "any-at-or-before", "latched"} {
		if _, err := Build(name, 2); err != nil {
			t.Fatalf("Build(%q): %v", name, err)
		}
	}
}

func TestBuild_UnknownNameErrors(t *testing.T) {
	if _, err := Build("does-not-exist", 1); err == nil {
		t.Fatalf("expected an error for an unregistered policy name")
	}
}

func TestRegister_DuplicateNamePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic on duplicate registration")
		}
	}()
	Register("before", func(param int64) capture.FollowerPolicy[int64, int] {
		return capture.BeforeFollower[int64, int]{Delay: param}
	})
}
