// Package tui collects a patient record in the terminal and prints the
// prediction result.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/kartoza/cardio-risk/internal/models"
	"github.com/kartoza/cardio-risk/internal/predict"
	"github.com/kartoza/cardio-risk/internal/registry"
	"github.com/kartoza/cardio-risk/internal/render"
)

// App runs the terminal form
type App struct {
	invoker  *predict.Invoker
	renderer *render.Renderer
	out      io.Writer
	loadErr  error
}

// New returns an App. invoker is nil when the models failed to load, in
// which case loadErr carries the cause.
func New(invoker *predict.Invoker, renderer *render.Renderer, loadErr error, out io.Writer) *App {
	return &App{invoker: invoker, renderer: renderer, loadErr: loadErr, out: out}
}

// Run shows the form until the user declines another prediction.
func (a *App) Run(ctx context.Context) error {
	s := a.renderer.Strings()
	fmt.Fprintln(a.out, styles.Title.Render("❤️  "+s.Title))
	fmt.Fprintln(a.out, styles.Subtitle.Render(s.Subtitle))
	fmt.Fprintln(a.out)

	if a.invoker == nil {
		fmt.Fprintln(a.out, RenderUnavailable(s, a.loadErr))
		if a.loadErr != nil {
			return a.loadErr
		}
		return registry.ErrModelUnavailable
	}

	values := defaultValues()
	for {
		if err := newForm(s, values).RunWithContext(ctx); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}

		rec, err := recordFromValues(values)
		if err != nil {
			fmt.Fprintln(a.out, styles.ErrorBox.Render(err.Error()))
			continue
		}

		var (
			out     *predict.Outcome
			predErr error
		)
		err = spinner.New().
			Title(s.Busy).
			Context(ctx).
			Action(func() { out, predErr = a.invoker.Predict(ctx, rec) }).
			Run()
		if err != nil {
			return err
		}
		if predErr != nil {
			fmt.Fprintln(a.out, styles.ErrorBox.Render(s.PredictFail+"\n"+predErr.Error()))
		} else {
			fmt.Fprintln(a.out, RenderResult(a.renderer.Render(out)))
		}

		again := true
		confirm := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().Title(s.Button + "?").Value(&again),
		))
		if err := confirm.RunWithContext(ctx); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
		if !again {
			return nil
		}
	}
}

// defaultValues returns the form state keyed by field name
func defaultValues() map[string]*string {
	values := make(map[string]*string)
	for _, f := range models.Fields() {
		v := f.Default
		values[f.Name] = &v
	}
	return values
}

// newForm lays the fields out in the same groups as the web page:
// both columns first, then the wide selects.
func newForm(s render.Strings, values map[string]*string) *huh.Form {
	var first, second []huh.Field
	for _, f := range models.Fields() {
		field := newField(f, values[f.Name])
		if f.Column == models.ColumnWide {
			second = append(second, field)
		} else {
			first = append(first, field)
		}
	}
	return huh.NewForm(
		huh.NewGroup(first...).Title(s.FormHeading),
		huh.NewGroup(second...),
	)
}

func newField(f models.Field, value *string) huh.Field {
	if f.Numeric() {
		return huh.NewInput().
			Key(f.Name).
			Title(f.Label).
			Description(boundsHint(f)).
			Value(value).
			Validate(boundsValidator(f))
	}
	return huh.NewSelect[string]().
		Key(f.Name).
		Title(f.Label).
		Options(huh.NewOptions(f.Options...)...).
		Value(value)
}

func boundsHint(f models.Field) string {
	return fmt.Sprintf("%s … %s",
		strconv.FormatFloat(*f.Min, 'f', -1, 64),
		strconv.FormatFloat(*f.Max, 'f', -1, 64))
}

// boundsValidator checks a typed number against the field's range.
func boundsValidator(f models.Field) func(string) error {
	return func(s string) error {
		v, err := parseNumber(f, s)
		if err != nil {
			return err
		}
		if f.Min != nil && v < *f.Min {
			return fmt.Errorf("must be at least %s", strconv.FormatFloat(*f.Min, 'f', -1, 64))
		}
		if f.Max != nil && v > *f.Max {
			return fmt.Errorf("must be at most %s", strconv.FormatFloat(*f.Max, 'f', -1, 64))
		}
		return nil
	}
}

func parseNumber(f models.Field, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if f.Kind == models.KindInteger {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, errors.New("must be a whole number")
		}
		return float64(n), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("must be a number")
	}
	return v, nil
}

// recordFromValues assembles and validates a record from form state.
func recordFromValues(values map[string]*string) (models.PatientRecord, error) {
	get := func(name string) string {
		if v, ok := values[name]; ok && v != nil {
			return strings.TrimSpace(*v)
		}
		return ""
	}
	var errs []error
	atoi := func(name string) int {
		n, err := strconv.Atoi(get(name))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s must be a whole number", name))
		}
		return n
	}

	rec := models.PatientRecord{
		Age:            atoi("Age"),
		RestingBP:      atoi("RestingBP"),
		Cholesterol:    atoi("Cholesterol"),
		FastingBS:      atoi("FastingBS"),
		MaxHR:          atoi("MaxHR"),
		Sex:            get("Sex"),
		ChestPainType:  get("ChestPainType"),
		RestingECG:     get("RestingECG"),
		ExerciseAngina: get("ExerciseAngina"),
		STSlope:        get("ST_Slope"),
	}
	oldpeak, err := strconv.ParseFloat(get("Oldpeak"), 64)
	if err != nil {
		errs = append(errs, errors.New("Oldpeak must be a number"))
	}
	rec.Oldpeak = oldpeak

	if len(errs) > 0 {
		return models.PatientRecord{}, errors.Join(errs...)
	}
	if err := models.Validate(rec); err != nil {
		return models.PatientRecord{}, err
	}
	return rec, nil
}

// RenderResult draws the banner, the ensemble probability and the
// three-way comparison.
func RenderResult(res render.Result) string {
	var b strings.Builder

	b.WriteString(styles.Heading.Render("🎯 "+res.Title) + "\n")
	if res.Banner.Level == render.LevelError {
		b.WriteString(styles.ErrorBox.Render("⚠️  "+res.Banner.Text) + "\n")
	} else {
		b.WriteString(styles.SuccessBox.Render("✅ "+res.Banner.Text) + "\n")
	}
	b.WriteString(styles.InfoBox.Render(res.ProbabilityLabel+": "+res.Probability) + "\n")

	b.WriteString(styles.Heading.Render("📌 "+res.ComparisonTitle) + "\n")
	cards := make([]string, 0, len(res.Comparison))
	for _, m := range res.Comparison {
		label := styles.Low.Render(m.Label)
		if m.Label == render.LabelText(1) {
			label = styles.High.Render(m.Label)
		}
		cards = append(cards, styles.Metric.Render(
			styles.Muted.Render(m.Model)+"\n"+label+"\n"+m.Percent))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	return b.String()
}

// RenderUnavailable draws the halt message shown when the models are missing
func RenderUnavailable(s render.Strings, cause error) string {
	msg := "⚠️  " + s.Unavailable
	if cause != nil {
		msg += "\n" + styles.Muted.Render(cause.Error())
	}
	return styles.ErrorBox.Render(msg)
}
