package trace

import "github.com/sarchlab/cachesim/mem/cache"

// HookPos defines the enum of possible hooking positions.
type HookPos struct {
	Name string
}

var (
	// HookPosAccess is triggered after every access.
	HookPosAccess = &HookPos{Name: "Access"}

	// HookPosRunEnd is triggered once the trace is exhausted.
	HookPosRunEnd = &HookPos{Name: "RunEnd"}
)

// HookCtx is the context that holds all the information about the site that a
// hook is triggered.
type HookCtx struct {
	Domain *Runner
	Pos    *HookPos

	// Seq is the zero-based index of the access. At HookPosRunEnd it is the
	// number of accesses.
	Seq     uint64
	Outcome cache.Outcome
	Stats   cache.Statistics
}

// Hook is a short piece of program that can be invoked by the runner.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

type hookableBase struct {
	hookList []Hook
}

// NumHooks returns the number of hooks registered.
func (h *hookableBase) NumHooks() int {
	return len(h.hookList)
}

// Hooks returns all the hooks registered.
func (h *hookableBase) Hooks() []Hook {
	return h.hookList
}

// AcceptHook registers a hook. Registering the same hook twice panics.
func (h *hookableBase) AcceptHook(hook Hook) {
	for _, existing := range h.hookList {
		if existing == hook {
			panic("duplicated hook")
		}
	}

	h.hookList = append(h.hookList, hook)
}

func (h *hookableBase) invokeHook(ctx HookCtx) {
	for _, hook := range h.hookList {
		hook.Func(ctx)
	}
}
