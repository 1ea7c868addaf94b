package app

import "context"

type (
	// Window owns the platform event loop.
	Window interface {
		ShouldClose() bool
		PollEvents(ctx context.Context) error
		SetFramebufferSizeCallback(fn func(width, height int))
		Destroy() error
	}

	Renderer interface {
		Init(enableValidation bool) error
		Update() error
		CleanUp() error
		SetFramebufferResized()
	}

	// SizeObserver is implemented by renderers that want the new framebuffer
	// size along with the resize notification.
	SizeObserver interface {
		OnFramebufferSize(width, height int)
	}
)
