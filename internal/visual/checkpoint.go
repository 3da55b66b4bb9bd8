package visual

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// ErrMissingBaseline is returned when a checkpoint has no committed baseline
// outside update mode. The capture is kept as <name>.actual.png.
var ErrMissingBaseline = errors.New("missing baseline")

// Screenshotter captures the current page. playwright.Page satisfies it.
type Screenshotter interface {
	Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error)
}

// ElementScreenshotter captures a single element. pages.Locator satisfies it.
type ElementScreenshotter interface {
	Screenshot() ([]byte, error)
}

// Checker takes named visual checkpoints against a baseline store
type Checker struct {
	store     *BaselineStore
	tolerance Tolerance
	update    bool
	log       logrus.FieldLogger
}

// NewChecker creates a checker. In update mode every checkpoint rewrites its
// baseline instead of comparing.
func NewChecker(store *BaselineStore, tol Tolerance, update bool, log logrus.FieldLogger) *Checker {
	return &Checker{store: store, tolerance: tol, update: update, log: log}
}

// Updating reports whether checkpoints rewrite baselines
func (c *Checker) Updating() bool {
	return c.update
}

// Checkpoint captures a full-page screenshot with animations disabled and
// compares it with the baseline called name. In update mode the capture
// replaces the baseline. Otherwise a missing baseline fails with
// ErrMissingBaseline, and a mismatch writes <name>.actual.png and
// <name>.diff.png next to the baseline and returns a *MismatchError.
func (c *Checker) Checkpoint(page Screenshotter, name string) error {
	file := FileName(name)
	shot, err := capture(page, file)
	if err != nil {
		return err
	}
	return c.verify(file, shot)
}

// CheckpointElement is Checkpoint for a single element's screenshot
func (c *Checker) CheckpointElement(el ElementScreenshotter, name string) error {
	file := FileName(name)
	shot, err := el.Screenshot()
	if err != nil {
		return fmt.Errorf("failed to capture %s: %w", file, err)
	}
	return c.verify(file, shot)
}

func (c *Checker) verify(file string, shot []byte) error {
	log := c.log.WithField("checkpoint", file)

	if c.update {
		if err := c.store.Write(file, shot); err != nil {
			return err
		}
		log.Info("Baseline recorded")
		return nil
	}

	res, err := c.compare(shot, file)
	if errors.Is(err, ErrMissingBaseline) {
		if werr := c.store.Write(ActualName(file), shot); werr != nil {
			return werr
		}
		log.Warn("Baseline missing")
		return err
	}
	if err != nil {
		return err
	}

	log = log.WithFields(logrus.Fields{
		"diff_pixels": res.DiffPixels,
		"diff_ratio":  res.Ratio(),
	})
	if res.Within(c.tolerance) {
		log.Debug("Checkpoint matched")
		if err := c.store.Remove(ActualName(file)); err != nil {
			return err
		}
		return c.store.Remove(DiffName(file))
	}

	if err := c.store.Write(ActualName(file), shot); err != nil {
		return err
	}
	if res.Diff != nil {
		data, err := encodeDiff(res.Diff)
		if err != nil {
			return fmt.Errorf("failed to encode diff for %s: %w", file, err)
		}
		if err := c.store.Write(DiffName(file), data); err != nil {
			return err
		}
	}
	log.Warn("Checkpoint mismatch")
	return &MismatchError{Name: file, Result: res}
}

// Against captures the page and compares it with another checkpoint's
// baseline without writing anything. It returns a *MismatchError when the
// capture falls outside tolerance.
func (c *Checker) Against(page Screenshotter, baseline string) error {
	file := FileName(baseline)
	shot, err := capture(page, file)
	if err != nil {
		return err
	}
	res, err := c.compare(shot, file)
	if err != nil {
		return err
	}
	if !res.Within(c.tolerance) {
		return &MismatchError{Name: file, Result: res}
	}
	return nil
}

func (c *Checker) compare(shot []byte, file string) (Result, error) {
	exists, err := c.store.Exists(file)
	if err != nil {
		return Result{}, err
	}
	if !exists {
		return Result{}, fmt.Errorf("%w: %s (rerun with UPDATE_BASELINES=true to record it)", ErrMissingBaseline, file)
	}
	baseline, err := c.store.Read(file)
	if err != nil {
		return Result{}, err
	}
	return Compare(shot, baseline, c.tolerance)
}

func encodeDiff(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func capture(page Screenshotter, file string) ([]byte, error) {
	shot, err := page.Screenshot(playwright.PageScreenshotOptions{
		FullPage:   playwright.Bool(true),
		Animations: playwright.ScreenshotAnimationsDisabled,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to capture %s: %w", file, err)
	}
	return shot, nil
}
