package hotkeys

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/1broseidon/tileshell/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Executor runs one shell command line.
type Executor func(line string) error

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	exec   Executor
	logger *slog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(backend platform.Backend, exec Executor, logger *slog.Logger) *Handler {
	var xu *xgbutil.XUtil
	var root xproto.Window
	if accessor, ok := backend.(x11Accessor); ok {
		xu = accessor.XUtil()
		root = accessor.RootWindow()
	}
	if logger == nil {
		logger = slog.Default()
	}

	if xu != nil {
		ignoreModsOnce.Do(func() {
			configureIgnoreMods(xu)
		})
	}

	return &Handler{
		xu:     xu,
		root:   root,
		exec:   exec,
		logger: logger,
	}
}

// Bind grabs every key sequence in bindings and runs its command when
// pressed. Sequences that fail to grab are reported together; the rest stay
// bound.
func (h *Handler) Bind(bindings map[string]string) error {
	if h.xu == nil {
		return fmt.Errorf("hotkeys need an X11 backend")
	}

	keys := make([]string, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		command := bindings[key]
		err := h.RegisterFunc(key, func() {
			h.logger.Debug("hotkey triggered", "key", key, "command", command)
			if err := h.exec(command); err != nil {
				h.logger.Warn("hotkey command failed", "key", key, "command", command, "error", err)
			}
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("bind %s: %w", key, err))
			continue
		}
		h.logger.Info("hotkey registered", "key", key, "command", command)
	}
	return errors.Join(errs...)
}

// Rebind drops every grab made on the root window and binds again.
func (h *Handler) Rebind(bindings map[string]string) error {
	if h.xu == nil {
		return fmt.Errorf("hotkeys need an X11 backend")
	}
	keybind.Detach(h.xu, h.root)
	return h.Bind(bindings)
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	xevent.IgnoreMods = ignoreMasks(base)
}

// ignoreMasks returns 0 plus every non-empty combination of base.
func ignoreMasks(base []uint16) []uint16 {
	masks := []uint16{0}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		masks = append(masks, mask)
	}
	return masks
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
