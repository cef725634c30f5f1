package models

import (
	"strconv"
)

// FieldKind describes which control a field is collected with
type FieldKind string

const (
	KindInteger FieldKind = "integer"
	KindDecimal FieldKind = "decimal"
	KindFlag    FieldKind = "flag"
	KindChoice  FieldKind = "choice"
)

// Column places a field in the form layout
type Column int

const (
	ColumnWide Column = iota
	ColumnLeft
	ColumnRight
)

// Field describes one form control
type Field struct {
	Name    string    `json:"name"`
	Label   string    `json:"label"`
	Kind    FieldKind `json:"kind"`
	Min     *float64  `json:"min,omitempty"`
	Max     *float64  `json:"max,omitempty"`
	Step    *float64  `json:"step,omitempty"`
	Default string    `json:"default"`
	Options []string  `json:"options,omitempty"`
	Column  Column    `json:"column"`
}

// ptr is a helper to create pointers to float64 literals
func ptr(f float64) *float64 {
	return &f
}

// Fields returns the form schema in display order. Bounds and options
// match the validate tags on PatientRecord.
func Fields() []Field {
	d := DefaultRecord()
	return []Field{
		{Name: "Age", Label: "Age", Kind: KindInteger, Min: ptr(1), Max: ptr(120), Step: ptr(1),
			Default: strconv.Itoa(d.Age), Column: ColumnLeft},
		{Name: "RestingBP", Label: "RestingBP", Kind: KindInteger, Min: ptr(0), Max: ptr(250), Step: ptr(1),
			Default: strconv.Itoa(d.RestingBP), Column: ColumnLeft},
		{Name: "Cholesterol", Label: "Cholesterol", Kind: KindInteger, Min: ptr(0), Max: ptr(600), Step: ptr(1),
			Default: strconv.Itoa(d.Cholesterol), Column: ColumnLeft},
		{Name: "FastingBS", Label: "FastingBS (Fasting Blood Sugar > 120 mg/dl?)", Kind: KindFlag,
			Default: strconv.Itoa(d.FastingBS), Options: []string{"0", "1"}, Column: ColumnLeft},
		{Name: "MaxHR", Label: "MaxHR", Kind: KindInteger, Min: ptr(50), Max: ptr(250), Step: ptr(1),
			Default: strconv.Itoa(d.MaxHR), Column: ColumnRight},
		{Name: "Oldpeak", Label: "Oldpeak", Kind: KindDecimal, Min: ptr(0), Max: ptr(10), Step: ptr(0.1),
			Default: strconv.FormatFloat(d.Oldpeak, 'f', 1, 64), Column: ColumnRight},
		{Name: "Sex", Label: "Sex", Kind: KindChoice,
			Default: d.Sex, Options: []string{"M", "F"}, Column: ColumnRight},
		{Name: "ExerciseAngina", Label: "Exercise Angina", Kind: KindChoice,
			Default: d.ExerciseAngina, Options: []string{"N", "Y"}, Column: ColumnRight},
		{Name: "ChestPainType", Label: "Chest Pain Type", Kind: KindChoice,
			Default: d.ChestPainType, Options: []string{"TA", "ATA", "NAP", "ASY"}, Column: ColumnWide},
		{Name: "RestingECG", Label: "Resting ECG", Kind: KindChoice,
			Default: d.RestingECG, Options: []string{"Normal", "ST", "LVH"}, Column: ColumnWide},
		{Name: "ST_Slope", Label: "ST Slope", Kind: KindChoice,
			Default: d.STSlope, Options: []string{"Up", "Flat", "Down"}, Column: ColumnWide},
	}
}

// Numeric reports whether the field takes a free-form number
func (f Field) Numeric() bool {
	return f.Kind == KindInteger || f.Kind == KindDecimal
}

// FieldsIn returns the fields placed in a layout column, in display order
func FieldsIn(col Column) []Field {
	var out []Field
	for _, f := range Fields() {
		if f.Column == col {
			out = append(out, f)
		}
	}
	return out
}
