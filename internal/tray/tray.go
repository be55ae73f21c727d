package tray

import (
	"context"
	"sync"

	"fyne.io/systray"
	"github.com/genricoloni/lyrical/internal/domain"
	"go.uber.org/zap"
)

// Controls are the host operations the menu drives
type Controls interface {
	ToggleOverlay()
	ToggleTranslation()
	ToggleLock()
	ShowMain()
	BeginQuit()
}

// Tray shows the menu in the system tray. It implements domain.StateObserver.
type Tray struct {
	logger   *zap.Logger
	controls Controls
	quit     func()

	updates chan domain.HostSnapshot
	icons   chan []byte
	done    chan struct{}
	end     func()
	wg      sync.WaitGroup

	menu MenuSpec
	// clicks is closed when the menu is rebuilt, releasing the old item goroutines
	clicks chan struct{}
}

// New creates the tray. quit is called after the Quit item has told the host.
func New(logger *zap.Logger, controls Controls, quit func()) *Tray {
	return &Tray{
		logger:   logger,
		controls: controls,
		quit:     quit,
		updates:  make(chan domain.HostSnapshot, 1),
		icons:    make(chan []byte, 1),
		done:     make(chan struct{}),
	}
}

// StateChanged keeps only the latest snapshot. It never blocks the caller.
func (t *Tray) StateChanged(snap domain.HostSnapshot) {
	for {
		select {
		case t.updates <- snap:
			return
		default:
		}
		select {
		case <-t.updates:
		default:
		}
	}
}

// SetIcon replaces the tray icon with PNG data
func (t *Tray) SetIcon(png []byte) {
	for {
		select {
		case t.icons <- png:
			return
		default:
		}
		select {
		case <-t.icons:
		default:
		}
	}
}

// Start registers the tray icon. It returns immediately.
func (t *Tray) Start(_ context.Context) error {
	t.logger.Info("Tray starting")
	start, end := systray.RunWithExternalLoop(t.onReady, func() {
		t.logger.Info("Tray exited")
	})
	t.end = end
	start()
	return nil
}

// Stop removes the tray icon
func (t *Tray) Stop(_ context.Context) error {
	t.logger.Info("Tray stopping...")
	close(t.done)
	t.wg.Wait()
	if t.end != nil {
		t.end()
	}
	return nil
}

func (t *Tray) onReady() {
	systray.SetTitle("lyrical")
	systray.SetTooltip("lyrical")

	t.wg.Add(1)
	go t.loop()
}

func (t *Tray) loop() {
	defer t.wg.Done()
	for {
		select {
		case <-t.done:
			if t.clicks != nil {
				close(t.clicks)
			}
			return
		case snap := <-t.updates:
			t.apply(RenderMenu(snap))
		case icon := <-t.icons:
			systray.SetIcon(icon)
		}
	}
}

// apply rebuilds the native menu when spec differs from what is shown
func (t *Tray) apply(spec MenuSpec) {
	if spec.Equal(t.menu) && t.clicks != nil {
		return
	}
	t.menu = spec

	if t.clicks != nil {
		close(t.clicks)
	}
	t.clicks = make(chan struct{})

	systray.ResetMenu()
	systray.SetTooltip(spec.Tooltip)

	for _, item := range spec.Items {
		switch item.Kind {
		case Separator:
			systray.AddSeparator()
		case Checkbox:
			mi := systray.AddMenuItemCheckbox(item.Label, "", item.Checked)
			t.watch(mi, item.Action)
		default:
			mi := systray.AddMenuItem(item.Label, "")
			if item.Disabled {
				mi.Disable()
			}
			if item.Action != NoAction {
				t.watch(mi, item.Action)
			}
		}
	}
}

// watch forwards clicks on mi until the menu is rebuilt
func (t *Tray) watch(mi *systray.MenuItem, action Action) {
	stop := t.clicks
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		for {
			select {
			case <-stop:
				return
			case <-mi.ClickedCh:
				t.dispatch(action)
			}
		}
	}()
}

func (t *Tray) dispatch(action Action) {
	t.logger.Debug("Tray item clicked", zap.Int("action", int(action)))
	switch action {
	case ToggleOverlay:
		t.controls.ToggleOverlay()
	case ToggleTranslation:
		t.controls.ToggleTranslation()
	case ToggleLock:
		t.controls.ToggleLock()
	case ShowMain:
		t.controls.ShowMain()
	case Quit:
		t.controls.BeginQuit()
		if t.quit != nil {
			t.quit()
		}
	}
}
