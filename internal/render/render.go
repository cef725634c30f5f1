// Package render turns prediction outcomes into display-ready results and
// holds the localised UI strings.
package render

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/kartoza/cardio-risk/internal/predict"
)

// Banner levels, named after the alert styles used to show them.
const (
	LevelError   = "error"
	LevelSuccess = "success"
)

// Message keys. The English text doubles as the key.
const (
	msgTitle        = "Heart Disease Risk Prediction"
	msgSubtitle     = "Ensemble Model (BernoulliNB + SVM)"
	msgFormHeading  = "Enter Patient Data"
	msgButton       = "Predict"
	msgBusy         = "Calculating risk..."
	msgResult       = "Prediction Result (Ensemble)"
	msgHighRisk     = "High Risk of Heart Disease"
	msgLowRisk      = "Low Risk of Heart Disease"
	msgProbability  = "Probability (High Risk)"
	msgComparison   = "Model Comparison"
	msgUnavailable  = "Models not found. Make sure the model files are present."
	msgPredictError = "Prediction failed."
)

var indonesian = map[string]string{
	msgTitle:        "Prediksi Risiko Penyakit Jantung",
	msgSubtitle:     "Ensemble Model (BernoulliNB + SVM)",
	msgFormHeading:  "Masukkan Data Pasien",
	msgButton:       "Prediksi",
	msgBusy:         "Menghitung risiko...",
	msgResult:       "Hasil Prediksi (Ensemble)",
	msgHighRisk:     "Risiko Tinggi Penyakit Jantung",
	msgLowRisk:      "Risiko Rendah Penyakit Jantung",
	msgProbability:  "Probabilitas (Risiko Tinggi)",
	msgComparison:   "Perbandingan Model",
	msgUnavailable:  "Model tidak ditemukan. Pastikan file model sudah ada.",
	msgPredictError: "Prediksi gagal.",
}

var supported = map[string]language.Tag{
	"en": language.English,
	"id": language.Indonesian,
}

// Display names of the compared models, in comparison order
const (
	ModelBernoulliNB = "BernoulliNB"
	ModelLinearSVM   = "Linear SVM"
	ModelEnsemble    = "Ensemble"
)

// Banner is the prominent high/low risk message.
type Banner struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// Metric is one column of the model comparison.
type Metric struct {
	Model       string  `json:"model"`
	Label       string  `json:"label"`
	Percent     string  `json:"percent"`
	Probability float64 `json:"probability"`
}

// Result is everything shown after a prediction.
type Result struct {
	Title            string   `json:"title"`
	Banner           Banner   `json:"banner"`
	ProbabilityLabel string   `json:"probability_label"`
	Probability      string   `json:"probability"`
	ComparisonTitle  string   `json:"comparison_title"`
	Comparison       []Metric `json:"comparison"`
}

// Strings are the static UI texts for one language.
type Strings struct {
	Lang        string `json:"lang"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	FormHeading string `json:"form_heading"`
	Button      string `json:"button"`
	Busy        string `json:"busy"`
	Unavailable string `json:"unavailable"`
	PredictFail string `json:"predict_failed"`
}

// Renderer formats outcomes for a single language.
type Renderer struct {
	lang    string
	printer *message.Printer
}

// New returns a Renderer for lang ("en" or "id").
func New(lang string) (*Renderer, error) {
	tag, ok := supported[lang]
	if !ok {
		return nil, fmt.Errorf("unsupported language %q", lang)
	}

	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, id := range indonesian {
		if err := b.SetString(language.English, key, key); err != nil {
			return nil, fmt.Errorf("failed to build message catalog: %w", err)
		}
		if err := b.SetString(language.Indonesian, key, id); err != nil {
			return nil, fmt.Errorf("failed to build message catalog: %w", err)
		}
	}

	return &Renderer{
		lang:    lang,
		printer: message.NewPrinter(tag, message.Catalog(b)),
	}, nil
}

// Lang returns the renderer's language code
func (r *Renderer) Lang() string {
	return r.lang
}

// Strings returns the static UI texts.
func (r *Renderer) Strings() Strings {
	return Strings{
		Lang:        r.lang,
		Title:       r.printer.Sprintf(msgTitle),
		Subtitle:    r.printer.Sprintf(msgSubtitle),
		FormHeading: r.printer.Sprintf(msgFormHeading),
		Button:      r.printer.Sprintf(msgButton),
		Busy:        r.printer.Sprintf(msgBusy),
		Unavailable: r.printer.Sprintf(msgUnavailable),
		PredictFail: r.printer.Sprintf(msgPredictError),
	}
}

// Render builds the display result. Only the ensemble label drives the
// banner; the comparison lists the models in a fixed order.
func (r *Renderer) Render(out *predict.Outcome) Result {
	ensemble := out.Ensemble
	return Result{
		Title:            r.printer.Sprintf(msgResult),
		Banner:           Banner{Level: BannerLevel(ensemble.Label), Text: r.bannerText(ensemble.Label)},
		ProbabilityLabel: r.printer.Sprintf(msgProbability),
		Probability:      r.Percent(ensemble.Positive()),
		ComparisonTitle:  r.printer.Sprintf(msgComparison),
		Comparison: []Metric{
			r.metric(ModelBernoulliNB, out.BernoulliNB.Label, out.BernoulliNB.Positive()),
			r.metric(ModelLinearSVM, out.LinearSVM.Label, out.LinearSVM.Positive()),
			r.metric(ModelEnsemble, ensemble.Label, ensemble.Positive()),
		},
	}
}

// Percent formats a probability as a percentage with one decimal.
func (r *Renderer) Percent(p float64) string {
	return r.printer.Sprintf("%.1f%%", p*100)
}

func (r *Renderer) metric(model string, label int, p float64) Metric {
	return Metric{
		Model:       model,
		Label:       LabelText(label),
		Percent:     r.Percent(p),
		Probability: p,
	}
}

func (r *Renderer) bannerText(label int) string {
	if label == 1 {
		return r.printer.Sprintf(msgHighRisk)
	}
	return r.printer.Sprintf(msgLowRisk)
}

// LabelText maps a class label to its badge text
func LabelText(label int) string {
	if label == 1 {
		return "High"
	}
	return "Low"
}

// BannerLevel maps the ensemble label to a banner level
func BannerLevel(label int) string {
	if label == 1 {
		return LevelError
	}
	return LevelSuccess
}
