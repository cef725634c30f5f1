package models

import "github.com/kartoza/cardio-risk/internal/classifier"

// PatientRecord is one patient's clinical measurements, keyed in JSON by
// the column names the models were fitted on.
type PatientRecord struct {
	Age            int     `json:"Age" validate:"min=1,max=120"`
	RestingBP      int     `json:"RestingBP" validate:"min=0,max=250"`
	Cholesterol    int     `json:"Cholesterol" validate:"min=0,max=600"`
	FastingBS      int     `json:"FastingBS" validate:"oneof=0 1"`
	MaxHR          int     `json:"MaxHR" validate:"min=50,max=250"`
	Oldpeak        float64 `json:"Oldpeak" validate:"min=0,max=10"`
	Sex            string  `json:"Sex" validate:"oneof=M F"`
	ChestPainType  string  `json:"ChestPainType" validate:"oneof=TA ATA NAP ASY"`
	RestingECG     string  `json:"RestingECG" validate:"oneof=Normal ST LVH"`
	ExerciseAngina string  `json:"ExerciseAngina" validate:"oneof=N Y"`
	STSlope        string  `json:"ST_Slope" validate:"oneof=Up Flat Down"`
}

// DefaultRecord returns the record the form is pre-filled with
func DefaultRecord() PatientRecord {
	return PatientRecord{
		Age:            40,
		RestingBP:      120,
		Cholesterol:    200,
		FastingBS:      0,
		MaxHR:          150,
		Oldpeak:        1.0,
		Sex:            "M",
		ChestPainType:  "ATA",
		RestingECG:     "Normal",
		ExerciseAngina: "N",
		STSlope:        "Up",
	}
}

// Row converts the record into the single-row input the models expect.
// Categorical values are passed through unencoded.
func (r PatientRecord) Row() classifier.Row {
	return classifier.Row{
		Numeric: map[string]float64{
			"Age":         float64(r.Age),
			"RestingBP":   float64(r.RestingBP),
			"Cholesterol": float64(r.Cholesterol),
			"FastingBS":   float64(r.FastingBS),
			"MaxHR":       float64(r.MaxHR),
			"Oldpeak":     r.Oldpeak,
		},
		Categorical: map[string]string{
			"Sex":            r.Sex,
			"ChestPainType":  r.ChestPainType,
			"RestingECG":     r.RestingECG,
			"ExerciseAngina": r.ExerciseAngina,
			"ST_Slope":       r.STSlope,
		},
	}
}

// PredictRequest is the wire form of a PatientRecord. Pointers tell a
// missing key apart from a zero value.
type PredictRequest struct {
	Age            *int     `json:"Age" validate:"required"`
	RestingBP      *int     `json:"RestingBP" validate:"required"`
	Cholesterol    *int     `json:"Cholesterol" validate:"required"`
	FastingBS      *int     `json:"FastingBS" validate:"required"`
	MaxHR          *int     `json:"MaxHR" validate:"required"`
	Oldpeak        *float64 `json:"Oldpeak" validate:"required"`
	Sex            *string  `json:"Sex" validate:"required"`
	ChestPainType  *string  `json:"ChestPainType" validate:"required"`
	RestingECG     *string  `json:"RestingECG" validate:"required"`
	ExerciseAngina *string  `json:"ExerciseAngina" validate:"required"`
	STSlope        *string  `json:"ST_Slope" validate:"required"`
}

// Record returns the populated record. Call it only after the request
// passed Validate.
func (r PredictRequest) Record() PatientRecord {
	return PatientRecord{
		Age:            *r.Age,
		RestingBP:      *r.RestingBP,
		Cholesterol:    *r.Cholesterol,
		FastingBS:      *r.FastingBS,
		MaxHR:          *r.MaxHR,
		Oldpeak:        *r.Oldpeak,
		Sex:            *r.Sex,
		ChestPainType:  *r.ChestPainType,
		RestingECG:     *r.RestingECG,
		ExerciseAngina: *r.ExerciseAngina,
		STSlope:        *r.STSlope,
	}
}

// NewPredictRequest wraps a record in its wire form
func NewPredictRequest(rec PatientRecord) PredictRequest {
	return PredictRequest{
		Age:            &rec.Age,
		RestingBP:      &rec.RestingBP,
		Cholesterol:    &rec.Cholesterol,
		FastingBS:      &rec.FastingBS,
		MaxHR:          &rec.MaxHR,
		Oldpeak:        &rec.Oldpeak,
		Sex:            &rec.Sex,
		ChestPainType:  &rec.ChestPainType,
		RestingECG:     &rec.RestingECG,
		ExerciseAngina: &rec.ExerciseAngina,
		STSlope:        &rec.STSlope,
	}
}
