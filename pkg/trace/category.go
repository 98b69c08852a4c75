package trace

// Category names one of the fixed syscall-name groups used to color a
// header line's syscall name (§4.9). CategoryOther is the default for any
// syscall not in the table below.
type Category string

const (
	CategoryFileIO     Category = "file"
	CategoryProcess    Category = "process"
	CategoryMemory     Category = "memory"
	CategoryNetwork    Category = "network"
	CategoryFilesystem Category = "filesystem"
	CategoryTime       Category = "time"
	CategorySignal     Category = "signal"
	CategorySecurity   Category = "security"
	CategoryPoll       Category = "poll"
	CategoryResource   Category = "resource"
	CategoryOther      Category = "other"
)

var categoryBySyscall = buildCategoryTable(map[Category][]string{
	CategoryFileIO: {
		"read", "write", "pread", "pwrite", "pread64", "pwrite64", "readv", "writev",
		"preadv", "pwritev", "open", "openat", "openat2", "creat", "close", "dup",
		"dup2", "dup3", "lseek", "llseek", "_llseek", "fcntl", "ioctl", "fstat",
		"stat", "lstat", "fstatat", "newfstatat", "statx", "ftruncate", "truncate",
		"fsync", "fdatasync", "sync", "syncfs", "access", "faccessat", "faccessat2",
	},
	CategoryProcess: {
		"fork", "vfork", "clone", "clone3", "execve", "execveat", "exit", "exit_group",
		"wait4", "waitid", "waitpid", "kill", "tkill", "tgkill", "getpid", "gettid",
		"getppid", "getpgid", "getsid", "setpgid", "setsid", "ptrace", "prctl",
	},
	CategoryMemory: {
		"mmap", "mmap2", "munmap", "mremap", "msync", "mprotect", "madvise", "mlock",
		"mlock2", "munlock", "mlockall", "munlockall", "brk", "sbrk", "memfd_create",
		"userfaultfd", "remap_file_pages",
	},
	CategoryNetwork: {
		"socket", "bind", "listen", "accept", "accept4", "connect", "send", "sendto",
		"sendmsg", "sendmmsg", "recv", "recvfrom", "recvmsg", "recvmmsg", "shutdown",
		"getsockopt", "setsockopt", "pipe", "pipe2", "socketpair", "getpeername",
		"getsockname",
	},
	CategoryFilesystem: {
		"mkdir", "mkdirat", "rmdir", "unlink", "unlinkat", "rename", "renameat",
		"renameat2", "link", "linkat", "symlink", "symlinkat", "readlink", "readlinkat",
		"chmod", "fchmod", "fchmodat", "chown", "fchown", "lchown", "fchownat",
		"chdir", "fchdir", "getcwd", "mount", "umount", "umount2", "chroot",
		"pivot_root", "getdents", "getdents64", "statfs", "fstatfs",
	},
	CategoryTime: {
		"gettimeofday", "settimeofday", "clock_gettime", "clock_settime", "clock_getres",
		"clock_nanosleep", "time", "stime", "nanosleep", "timer_create", "timer_settime",
		"timer_gettime", "timer_delete", "timer_getoverrun", "alarm", "setitimer",
		"getitimer",
	},
	CategorySignal: {
		"signal", "sigaction", "sigreturn", "rt_sigaction", "rt_sigreturn", "sigprocmask",
		"rt_sigprocmask", "sigpending", "rt_sigpending", "sigsuspend", "rt_sigsuspend",
		"signalfd", "signalfd4",
	},
	CategorySecurity: {
		"setuid", "setgid", "setreuid", "setregid", "setresuid", "setresgid", "getuid",
		"getgid", "geteuid", "getegid", "capget", "capset", "setgroups", "getgroups",
		"seccomp", "keyctl", "add_key", "request_key",
	},
	CategoryPoll: {
		"select", "pselect6", "poll", "ppoll", "epoll_create", "epoll_create1",
		"epoll_ctl", "epoll_wait", "epoll_pwait", "inotify_init", "inotify_init1",
		"inotify_add_watch", "inotify_rm_watch", "eventfd", "eventfd2", "timerfd_create",
		"timerfd_settime", "timerfd_gettime",
	},
	CategoryResource: {
		"getrlimit", "setrlimit", "prlimit64", "getrusage", "getpriority", "setpriority",
		"nice", "sched_setscheduler", "sched_getscheduler", "sched_setparam",
		"sched_getparam", "sched_setaffinity", "sched_getaffinity", "sched_yield",
	},
})

func buildCategoryTable(bySet map[Category][]string) map[string]Category {
	table := make(map[string]Category)
	for category, names := range bySet {
		for _, name := range names {
			table[name] = category
		}
	}
	return table
}

// CategoryFor classifies a syscall name, falling back to CategoryOther for
// anything not in the table (vsyscalls, arch-specific oddities, new
// syscalls the table hasn't caught up with yet).
func CategoryFor(syscallName string) Category {
	if c, ok := categoryBySyscall[syscallName]; ok {
		return c
	}
	return CategoryOther
}
