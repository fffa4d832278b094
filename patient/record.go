// Package patient holds the clinical measurements collected by the form and
// their encoding into the feature vector the model was fitted on.
package patient

// Record is one set of form inputs. It lives for a single prediction.
type Record struct {
	Age      int     `json:"age" validate:"min=20,max=100"`
	Sex      int     `json:"sex" validate:"oneof=0 1"`
	CP       int     `json:"cp" validate:"oneof=0 1 2 3"`
	Trestbps int     `json:"trestbps" validate:"min=80,max=200"`
	Chol     int     `json:"chol" validate:"min=100,max=600"`
	FBS      int     `json:"fbs" validate:"oneof=0 1"`
	RestECG  int     `json:"restecg" validate:"oneof=0 1 2"`
	Thalach  int     `json:"thalach" validate:"min=60,max=220"`
	Exang    int     `json:"exang" validate:"oneof=0 1"`
	Oldpeak  float64 `json:"oldpeak" validate:"min=0,max=10,tenths"`
	Slope    int     `json:"slope" validate:"oneof=0 1 2"`
	CA       int     `json:"ca" validate:"oneof=0 1 2 3"`
	Thal     int     `json:"thal" validate:"oneof=1 2 3"`
}

// FeatureCount is the width of the vector the model expects.
const FeatureCount = 13

// FeatureVector encodes the record in the column order the model was fitted
// with. The order must never change.
func FeatureVector(r Record) []float64 {
	return []float64{
		float64(r.Age),
		float64(r.Sex),
		float64(r.CP),
		float64(r.Trestbps),
		float64(r.Chol),
		float64(r.FBS),
		float64(r.RestECG),
		float64(r.Thalach),
		float64(r.Exang),
		r.Oldpeak,
		float64(r.Slope),
		float64(r.CA),
		float64(r.Thal),
	}
}

func FeatureNames() []string {
	return []string{
		"age",
		"sex",
		"cp",
		"trestbps",
		"chol",
		"fbs",
		"restecg",
		"thalach",
		"exang",
		"oldpeak",
		"slope",
		"ca",
		"thal",
	}
}

// Defaults returns the record the form starts with.
func Defaults() Record {
	return Record{
		Age:      50,
		Sex:      1,
		CP:       0,
		Trestbps: 120,
		Chol:     200,
		FBS:      1,
		RestECG:  0,
		Thalach:  150,
		Exang:    1,
		Oldpeak:  1.0,
		Slope:    0,
		CA:       0,
		Thal:     1,
	}
}
