package mode

import (
	"github.com/flanksource/commons/logger"

	"github.com/flowterm/progress/progresserr"
)

// Creator builds a named mode from validated Parameters.
type Creator interface {
	// ModeName returns the registry key this creator answers to.
	ModeName() string
	// Create validates params and constructs the mode, failing hard on any
	// invalid input.
	Create(params Parameters) (ThreadConfig, error)
	// CreateWithFallback behaves like Create but, when called through a
	// Factory in fallback mode, may substitute safe defaults instead of
	// failing. The default implementation here simply delegates to Create;
	// Window and WindowWithTitle override it with a real cascade.
	CreateWithFallback(params Parameters) (ThreadConfig, error)
}

func validateTotalJobs(params Parameters, modeName string) error {
	if params.TotalJobs == 0 {
		return &progresserr.ValidationError{
			ModeName: modeName, Rule: "total_jobs_positive", Value: "0",
			Reason: "total_jobs must be greater than zero",
		}
	}
	return nil
}

// limitedCreator and capturingCreator have no fallback cascade: they either
// validate and construct, or fail.

type limitedCreator struct{}

func (limitedCreator) ModeName() string { return "limited" }

func (limitedCreator) Create(params Parameters) (ThreadConfig, error) {
	if err := validateTotalJobs(params, "limited"); err != nil {
		return nil, err
	}
	return NewLimited(params.TotalJobs, params.Passthrough), nil
}

func (c limitedCreator) CreateWithFallback(params Parameters) (ThreadConfig, error) {
	return c.Create(params)
}

type capturingCreator struct{}

func (capturingCreator) ModeName() string { return "capturing" }

func (capturingCreator) Create(params Parameters) (ThreadConfig, error) {
	if err := validateTotalJobs(params, "capturing"); err != nil {
		return nil, err
	}
	return NewCapturing(params.TotalJobs), nil
}

func (c capturingCreator) CreateWithFallback(params Parameters) (ThreadConfig, error) {
	return c.Create(params)
}

type windowCreator struct{}

func (windowCreator) ModeName() string { return "window" }

func (windowCreator) Create(params Parameters) (ThreadConfig, error) {
	if err := validateTotalJobs(params, "window"); err != nil {
		return nil, err
	}
	if params.MaxLines == nil {
		return nil, &progresserr.MissingParameter{
			ParamName: "max_lines", ModeName: "window", Reason: "window requires an explicit max_lines",
		}
	}
	return NewWindow(params.TotalJobs, *params.MaxLines)
}

// CreateWithFallback retries with the default window size (3 lines) if the
// requested size was invalid, warning instead of failing — mirrors
// modes/factory.rs's WindowCreator::create_with_fallback.
func (c windowCreator) CreateWithFallback(params Parameters) (ThreadConfig, error) {
	mode, err := c.Create(params)
	if err == nil {
		return mode, nil
	}
	fallback := params.WithMaxLines(3)
	mode, fbErr := c.Create(fallback)
	if fbErr != nil {
		return nil, fbErr
	}
	logger.Warnf("window: %v; falling back to %d lines", err, 3)
	return mode, nil
}

type windowWithTitleCreator struct{}

func (windowWithTitleCreator) ModeName() string { return "window_with_title" }

func (windowWithTitleCreator) Create(params Parameters) (ThreadConfig, error) {
	if err := validateTotalJobs(params, "window_with_title"); err != nil {
		return nil, err
	}
	if params.Title == nil {
		return nil, &progresserr.MissingParameter{
			ParamName: "title", ModeName: "window_with_title", Reason: "window_with_title requires a title",
		}
	}
	maxLines := 3
	if params.MaxLines != nil {
		maxLines = *params.MaxLines
	}
	return NewWindowWithTitle(params.TotalJobs, maxLines, *params.Title)
}

// CreateWithFallback cascades WindowWithTitle -> Window(3) -> Limited,
// mirroring modes/factory.rs's WindowWithTitleCreator::create_with_fallback.
func (c windowWithTitleCreator) CreateWithFallback(params Parameters) (ThreadConfig, error) {
	mode, err := c.Create(params)
	if err == nil {
		return mode, nil
	}
	if params.Title != nil {
		retry := params.WithMaxLines(3)
		if mode, err = c.Create(retry); err == nil {
			return mode, nil
		}
	}
	var wc windowCreator
	if mode, err = wc.CreateWithFallback(params.WithMaxLines(3)); err == nil {
		return mode, nil
	}
	var lc limitedCreator
	return lc.Create(params)
}
