package recipe

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleYAML = `models:
  - model: org/model-a
    parameters:
      weight: 0.5
      density: 0.5
  - model: org/model-b
    parameters:
      weight: 0.5
      density: 0.5
merge_method: ties
parameters:
  lambda: 1.0
dtype: bfloat16
`

func loadSample(t *testing.T) *Recipe {
	t.Helper()
	path := filepath.Join(t.TempDir(), "base.yml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return r
}

func TestLoadRejectsNonMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("- just\n- a\n- list\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for non-mapping document")
	}
}

func TestValidate(t *testing.T) {
	r := loadSample(t)
	if err := r.Validate(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	oneModel := `models:
  - model: org/only
    parameters:
      weight: 1.0
`
	path := filepath.Join(t.TempDir(), "one.yml")
	if err := os.WriteFile(path, []byte(oneModel), 0o644); err != nil {
		t.Fatal(err)
	}
	r2, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	err = r2.Validate()
	if err == nil {
		t.Fatal("expected structural error for single model entry")
	}
	if !IsStructureError(err) {
		t.Fatalf("expected structure error, got %v", err)
	}

	noParams := `models:
  - model: org/a
  - model: org/b
`
	path = filepath.Join(t.TempDir(), "noparams.yml")
	if err := os.WriteFile(path, []byte(noParams), 0o644); err != nil {
		t.Fatal(err)
	}
	r3, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := r3.Validate(); !IsStructureError(err) {
		t.Fatalf("expected structure error for missing parameters, got %v", err)
	}
}

func TestSetWeightsDoesNotMutateBase(t *testing.T) {
	base := loadSample(t)
	clone := base.Clone()
	if err := clone.SetWeights(0.3, 0.7); err != nil {
		t.Fatal(err)
	}
	if w, _ := clone.Weight(0); w != 0.3 {
		t.Fatalf("clone weight = %v, want 0.3", w)
	}
	if w, _ := base.Weight(0); w != 0.5 {
		t.Fatalf("base weight changed to %v", w)
	}
}

func TestSetDensitiesAndLambda(t *testing.T) {
	r := loadSample(t)
	if err := r.SetDensities(0.2, 0.3); err != nil {
		t.Fatal(err)
	}
	if d, _ := r.Density(0); d != 0.2 {
		t.Fatalf("density[0] = %v", d)
	}
	if d, _ := r.Density(1); d != 0.3 {
		t.Fatalf("density[1] = %v", d)
	}
	if err := r.SetLambda(0.9); err != nil {
		t.Fatal(err)
	}
	if l, _ := r.Lambda(); l != 0.9 {
		t.Fatalf("lambda = %v", l)
	}
}

func TestSetLambdaCreatesParameters(t *testing.T) {
	r := New()
	r.AppendModel("org/a", 0.5)
	if err := r.SetLambda(1.1); err != nil {
		t.Fatal(err)
	}
	if l, _ := r.Lambda(); l != 1.1 {
		t.Fatalf("lambda = %v", l)
	}
}

func TestRoundTripPreservesKeyOrder(t *testing.T) {
	r := loadSample(t)
	if err := r.SetWeights(0.3, 0.7); err != nil {
		t.Fatal(err)
	}
	b, err := r.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	out := string(b)

	// top-level order is unchanged: models before merge_method before dtype
	order := []string{"models:", "merge_method:", "parameters:", "dtype:"}
	last := -1
	for _, key := range order {
		idx := strings.Index(out, "\n"+key)
		if key == "models:" {
			idx = strings.Index(out, key)
		}
		if idx < 0 || idx < last {
			t.Fatalf("key %q out of order in output:\n%s", key, out)
		}
		last = idx
	}
	if strings.Contains(out, "{") || strings.Contains(out, "[") {
		t.Fatalf("output not in block style:\n%s", out)
	}
	if !strings.Contains(out, "weight: 0.3") {
		t.Fatalf("mutated weight missing from output:\n%s", out)
	}
}

func TestSaveAndReload(t *testing.T) {
	r := loadSample(t)
	if err := r.SetWeights(0.25, 0.75); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.yml")
	if err := r.Save(path); err != nil {
		t.Fatal(err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if w, _ := back.Weight(1); w != 0.75 {
		t.Fatalf("reloaded weight = %v", w)
	}
}

func TestNewRecipeBuilders(t *testing.T) {
	r := New()
	r.AppendModel("org/m@v1-step-10", 0.5)
	r.AppendModel("org/m@v1-step-20", 0.5)
	r.SetString("merge_method", "linear")
	r.SetString("dtype", "bfloat16")

	if err := r.Validate(); err != nil {
		t.Fatalf("built recipe invalid: %v", err)
	}
	b, err := r.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	out := string(b)
	if !strings.Contains(out, "model: org/m@v1-step-10") {
		t.Fatalf("model entry missing:\n%s", out)
	}
	if strings.Index(out, "models:") > strings.Index(out, "merge_method:") {
		t.Fatalf("models should precede merge_method:\n%s", out)
	}
	// whole-number weights keep a decimal point
	r2 := New()
	r2.AppendModel("org/x", 1)
	b2, _ := r2.Bytes()
	if !strings.Contains(string(b2), "weight: 1.0") {
		t.Fatalf("whole-number weight not rendered as float:\n%s", b2)
	}
}
