package rodsession

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
)

// BrowserConfig describes how to reach a Chrome instance.
type BrowserConfig struct {
	// RemoteURL is a DevTools websocket URL. Empty launches a local Chrome.
	RemoteURL string

	// Headless launches the local Chrome without a window.
	Headless bool

	// Bin overrides the Chrome binary used for local launches.
	Bin string

	// Flags are extra command-line switches for local launches.
	Flags map[string]string

	// IgnoreCertErrors disables TLS verification in the browser.
	IgnoreCertErrors bool
}

// Browser is a connected rod browser plus whatever launched it.
type Browser struct {
	*rod.Browser
	lnch *launcher.Launcher
}

// Connect launches or attaches to Chrome and connects to it.
func Connect(ctx context.Context, cfg BrowserConfig) (*Browser, error) {
	var (
		wsURL string
		lnch  *launcher.Launcher
	)

	if cfg.RemoteURL != "" {
		wsURL = cfg.RemoteURL
	} else {
		l := launcher.New().Context(ctx).Headless(cfg.Headless)
		if cfg.Bin != "" {
			l = l.Bin(cfg.Bin)
		}
		l = l.Set("disable-blink-features", "AutomationControlled")
		for k, v := range cfg.Flags {
			l = l.Set(flags.Flag(k), v)
		}

		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("rodsession: launch: %w", err)
		}
		wsURL = u
		lnch = l
	}

	b := rod.New().Context(ctx).ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		if lnch != nil {
			lnch.Kill()
		}
		return nil, fmt.Errorf("rodsession: connect: %w", err)
	}

	if cfg.IgnoreCertErrors {
		if err := b.IgnoreCertErrors(true); err != nil {
			_ = b.Close()
			if lnch != nil {
				lnch.Kill()
			}
			return nil, fmt.Errorf("rodsession: ignore cert errors: %w", err)
		}
	}

	return &Browser{Browser: b, lnch: lnch}, nil
}

// Close closes the browser connection and kills a locally launched Chrome.
func (b *Browser) Close() error {
	err := b.Browser.Close()
	if b.lnch != nil {
		b.lnch.Kill()
		b.lnch.Cleanup()
	}
	return err
}
