package thread

// Hooks are invoked by a Controller on its background goroutine, never on the
// caller's goroutine.
type Hooks interface {
	// OnThreadInit runs once, before any loop iteration.
	OnThreadInit() error
	// OnThreadLoop runs once per iteration while the controller is started.
	// It must return so the controller can observe Stop and Destroy.
	OnThreadLoop() error
	// OnThreadDestroy runs once, after the last iteration.
	OnThreadDestroy() error
}

// HookFuncs adapts plain functions to Hooks. Nil fields are no-ops.
type HookFuncs struct {
	Init    func() error
	Loop    func() error
	Destroy func() error
}

func (h HookFuncs) OnThreadInit() error {
	if h.Init == nil {
		return nil
	}
	return h.Init()
}

func (h HookFuncs) OnThreadLoop() error {
	if h.Loop == nil {
		return nil
	}
	return h.Loop()
}

func (h HookFuncs) OnThreadDestroy() error {
	if h.Destroy == nil {
		return nil
	}
	return h.Destroy()
}
