package patient

import "strconv"

type FieldKind string

const (
	KindNumber FieldKind = "number"
	KindChoice FieldKind = "choice"
)

// Option is one entry of an enumerated control.
type Option struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Field describes one form control and the domain it admits.
type Field struct {
	Name    string    `json:"name"`
	Label   string    `json:"label"`
	Help    string    `json:"help,omitempty"`
	Kind    FieldKind `json:"kind"`
	Min     float64   `json:"min"`
	Max     float64   `json:"max"`
	Step    float64   `json:"step"`
	Default float64   `json:"default"`
	Options []Option  `json:"options,omitempty"`

	get func(Record) float64
	set func(*Record, float64)
}

// Value reads this field from r.
func (f Field) Value(r Record) float64 {
	return f.get(r)
}

// Display renders v the way the control shows it: the option label for
// choices, the number otherwise.
func (f Field) Display(v float64) string {
	for _, opt := range f.Options {
		if float64(opt.Value) == v {
			return opt.Label
		}
	}
	if f.Step < 1 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', 0, 64)
}

// Integral reports whether the field only takes whole numbers.
func (f Field) Integral() bool {
	return f.Step >= 1
}

func numbered(values ...int) []Option {
	opts := make([]Option, len(values))
	for i, v := range values {
		opts[i] = Option{Value: v, Label: strconv.Itoa(v)}
	}
	return opts
}

var fields = []Field{
	{
		Name: "age", Label: "Age", Kind: KindNumber,
		Min: 20, Max: 100, Step: 1, Default: 50,
		get: func(r Record) float64 { return float64(r.Age) },
		set: func(r *Record, v float64) { r.Age = int(v) },
	},
	{
		Name: "sex", Label: "Sex", Kind: KindChoice,
		Min: 0, Max: 1, Step: 1, Default: 1,
		Options: []Option{{1, "Male"}, {0, "Female"}},
		get:     func(r Record) float64 { return float64(r.Sex) },
		set:     func(r *Record, v float64) { r.Sex = int(v) },
	},
	{
		Name: "cp", Label: "Chest Pain Type", Kind: KindChoice,
		Help: "0: Typical Angina, 1: Atypical Angina, 2: Non-anginal Pain, 3: Asymptomatic",
		Min:  0, Max: 3, Step: 1, Default: 0,
		Options: []Option{{0, "Typical Angina"}, {1, "Atypical Angina"}, {2, "Non-anginal Pain"}, {3, "Asymptomatic"}},
		get:     func(r Record) float64 { return float64(r.CP) },
		set:     func(r *Record, v float64) { r.CP = int(v) },
	},
	{
		Name: "trestbps", Label: "Resting Blood Pressure (mm Hg)", Kind: KindNumber,
		Min: 80, Max: 200, Step: 1, Default: 120,
		get: func(r Record) float64 { return float64(r.Trestbps) },
		set: func(r *Record, v float64) { r.Trestbps = int(v) },
	},
	{
		Name: "chol", Label: "Cholesterol (mg/dl)", Kind: KindNumber,
		Min: 100, Max: 600, Step: 1, Default: 200,
		get: func(r Record) float64 { return float64(r.Chol) },
		set: func(r *Record, v float64) { r.Chol = int(v) },
	},
	{
		Name: "fbs", Label: "Fasting Blood Sugar > 120 mg/dl", Kind: KindChoice,
		Min: 0, Max: 1, Step: 1, Default: 1,
		Options: []Option{{1, "True"}, {0, "False"}},
		get:     func(r Record) float64 { return float64(r.FBS) },
		set:     func(r *Record, v float64) { r.FBS = int(v) },
	},
	{
		Name: "restecg", Label: "Resting ECG Results", Kind: KindChoice,
		Help: "0: Normal, 1: ST-T Wave Abnormality, 2: Left Ventricular Hypertrophy",
		Min:  0, Max: 2, Step: 1, Default: 0,
		Options: []Option{{0, "Normal"}, {1, "ST-T Wave Abnormality"}, {2, "Left Ventricular Hypertrophy"}},
		get:     func(r Record) float64 { return float64(r.RestECG) },
		set:     func(r *Record, v float64) { r.RestECG = int(v) },
	},
	{
		Name: "thalach", Label: "Max Heart Rate Achieved", Kind: KindNumber,
		Min: 60, Max: 220, Step: 1, Default: 150,
		get: func(r Record) float64 { return float64(r.Thalach) },
		set: func(r *Record, v float64) { r.Thalach = int(v) },
	},
	{
		Name: "exang", Label: "Exercise Induced Angina", Kind: KindChoice,
		Min: 0, Max: 1, Step: 1, Default: 1,
		Options: []Option{{1, "Yes"}, {0, "No"}},
		get:     func(r Record) float64 { return float64(r.Exang) },
		set:     func(r *Record, v float64) { r.Exang = int(v) },
	},
	{
		Name: "oldpeak", Label: "ST Depression (Oldpeak)", Kind: KindNumber,
		Min: 0, Max: 10, Step: 0.1, Default: 1.0,
		get: func(r Record) float64 { return r.Oldpeak },
		set: func(r *Record, v float64) { r.Oldpeak = v },
	},
	{
		Name: "slope", Label: "Slope of the Peak Exercise ST Segment", Kind: KindChoice,
		Min: 0, Max: 2, Step: 1, Default: 0,
		Options: numbered(0, 1, 2),
		get:     func(r Record) float64 { return float64(r.Slope) },
		set:     func(r *Record, v float64) { r.Slope = int(v) },
	},
	{
		Name: "ca", Label: "Number of Major Vessels (0-3)", Kind: KindChoice,
		Min: 0, Max: 3, Step: 1, Default: 0,
		Options: numbered(0, 1, 2, 3),
		get:     func(r Record) float64 { return float64(r.CA) },
		set:     func(r *Record, v float64) { r.CA = int(v) },
	},
	{
		Name: "thal", Label: "Thalassemia", Kind: KindChoice,
		Min: 1, Max: 3, Step: 1, Default: 1,
		Options: []Option{{1, "Normal"}, {2, "Fixed Defect"}, {3, "Reversable Defect"}},
		get:     func(r Record) float64 { return float64(r.Thal) },
		set:     func(r *Record, v float64) { r.Thal = int(v) },
	},
}

// Fields lists the controls in feature order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Lookup finds a field by its form name.
func Lookup(name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
