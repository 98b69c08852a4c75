package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryForKnownSyscalls(t *testing.T) {
	cases := map[string]Category{
		"openat":        CategoryFileIO,
		"clone3":        CategoryProcess,
		"mmap":          CategoryMemory,
		"sendto":        CategoryNetwork,
		"renameat2":     CategoryFilesystem,
		"clock_gettime": CategoryTime,
		"rt_sigaction":  CategorySignal,
		"seccomp":       CategorySecurity,
		"epoll_wait":    CategoryPoll,
		"getrlimit":     CategoryResource,
	}
	for name, want := range cases {
		assert.Equal(t, want, CategoryFor(name), name)
	}
}

func TestCategoryForUnknownSyscallFallsBackToOther(t *testing.T) {
	assert.Equal(t, CategoryOther, CategoryFor("io_uring_enter"))
	assert.Equal(t, CategoryOther, CategoryFor(""))
}
