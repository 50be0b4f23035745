package main

import (
	"bytes"
	"context"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/proppr/pkg/proppr/internalerr"
	"github.com/cognicore/proppr/pkg/proppr/loss"
	"github.com/cognicore/proppr/pkg/proppr/store/memstore"
	"github.com/cognicore/proppr/pkg/proppr/store/sqlite"
)

func fixture(name string) string {
	return filepath.Join("testdata", name)
}

func TestRunProofsAnswersEveryGraph(t *testing.T) {
	ctx := context.Background()
	run, err := runProofs(ctx, proveFlags{
		graphs: []string{fixture("friends.yaml"), fixture("samebib.yaml")},
		config: fixture("apr.yaml"),
	}, nil)
	if err != nil {
		t.Fatalf("runProofs: %v", err)
	}

	if len(run.Answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(run.Answers))
	}
	if run.Answers[0].Query != "friends(alice,X)" || run.Answers[1].Query != "samebib(c1,X)" {
		t.Errorf("answers out of order: %q, %q", run.Answers[0].Query, run.Answers[1].Query)
	}
	if run.Answers[0].ID == run.Answers[1].ID || len(run.Answers[0].ID) != 26 {
		t.Errorf("expected distinct ULIDs, got %q and %q", run.Answers[0].ID, run.Answers[1].ID)
	}
	if run.APR.Alpha != 0.15 || run.APR.Mu != 0.01 {
		t.Errorf("config not applied: %+v", run.APR)
	}

	friends := run.Answers[0].Solutions
	if len(friends) != 2 || friends[0].Binding != "X=bob" {
		t.Fatalf("expected bob first, got %+v", friends)
	}
	if sum := friends[0].P + friends[1].P; sum >= 1 {
		t.Errorf("solutions should not be renormalized, sum=%g", sum)
	}
}

func TestRunProofsThreadsOverride(t *testing.T) {
	run, err := runProofs(context.Background(), proveFlags{
		graphs:  []string{fixture("friends.yaml")},
		threads: 7,
	}, nil)
	if err != nil {
		t.Fatalf("runProofs: %v", err)
	}
	if run.APR.Threads != 7 {
		t.Errorf("expected 7 threads, got %d", run.APR.Threads)
	}
}

func TestRunProofsMissingGraph(t *testing.T) {
	_, err := runProofs(context.Background(), proveFlags{graphs: []string{fixture("nope.yaml")}}, nil)
	if err == nil {
		t.Fatal("expected error for missing graph file")
	}
}

func TestImportedParamsChangeAnswers(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "params.db")

	table, err := loadParamFile(fixture("params.yaml"))
	if err != nil {
		t.Fatalf("loadParamFile: %v", err)
	}
	st, err := sqlite.OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := importParams(ctx, st, table); err != nil {
		t.Fatalf("importParams: %v", err)
	}
	exported, err := exportParams(ctx, st)
	if err != nil {
		t.Fatalf("exportParams: %v", err)
	}
	st.Close()

	if exported.Scheme != "exp" || exported.Params["id(fof)"] != 3 {
		t.Errorf("unexpected export %+v", exported)
	}

	flags := proveFlags{graphs: []string{fixture("friends.yaml")}, config: fixture("apr.yaml")}
	uniform, err := runProofs(ctx, flags, nil)
	if err != nil {
		t.Fatalf("uniform run: %v", err)
	}
	flags.params = dbPath
	learned, err := runProofs(ctx, flags, nil)
	if err != nil {
		t.Fatalf("learned run: %v", err)
	}

	if learned.Answers[0].raw["X=carol"] <= uniform.Answers[0].raw["X=carol"] {
		t.Errorf("learned fof weight should favour carol: %v vs %v",
			learned.Answers[0].raw, uniform.Answers[0].raw)
	}
	if learned.Params["id(fof)"] != 3 {
		t.Errorf("expected params from the database, got %v", learned.Params)
	}
}

func TestImportRejectsUnknownScheme(t *testing.T) {
	st := memstore.New()
	err := importParams(context.Background(), st, ParamFile{Scheme: "cubic", Params: map[string]float64{"f": 1}})
	if err == nil {
		t.Fatal("expected error for unknown scheme")
	}
	if params, _ := st.Params(context.Background()); len(params) != 0 {
		t.Errorf("rejected import wrote params: %v", params)
	}
}

func TestWeighterFromFallback(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()

	w, err := weighterFrom(ctx, st, "tanh")
	if err != nil {
		t.Fatalf("weighterFrom: %v", err)
	}
	if w.Scheme().Name() != "tanh" {
		t.Errorf("expected fallback scheme tanh, got %s", w.Scheme().Name())
	}

	if err := st.SetScheme(ctx, "sigmoid"); err != nil {
		t.Fatal(err)
	}
	w, err = weighterFrom(ctx, st, "tanh")
	if err != nil {
		t.Fatalf("weighterFrom: %v", err)
	}
	if w.Scheme().Name() != "sigmoid" {
		t.Errorf("stored scheme should win, got %s", w.Scheme().Name())
	}

	if _, err := weighterFrom(ctx, memstore.New(), "cubic"); err == nil {
		t.Error("expected error for unknown fallback scheme")
	}
}

func TestEvaluate(t *testing.T) {
	answers := []Answer{
		{Query: "q1", raw: map[string]float64{"X=a": 0.5, "X=b": 0.25}},
	}
	examples := []loss.Example{{Query: "q1", Positives: []string{"X=a"}, Negatives: []string{"X=b"}}}
	params := map[string]float64{"f": 2, "g": -1}

	data, err := evaluate(answers, examples, params, 0.1)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	wantLog := -math.Log(0.5) - math.Log(0.75)
	if got := data.Get(loss.Log); math.Abs(got-wantLog) > 1e-12 {
		t.Errorf("log loss = %g, want %g", got, wantLog)
	}
	if got := data.Get(loss.Regularization); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("regularization = %g, want 0.5", got)
	}

	data, err = evaluate(answers, examples, params, 0)
	if err != nil {
		t.Fatal(err)
	}
	if data.Has(loss.Regularization) {
		t.Error("mu = 0 should not add a regularization term")
	}

	_, err = evaluate(answers, []loss.Example{{Query: "q2"}}, nil, 0)
	if !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadExamples(t *testing.T) {
	examples, err := loadExamples(fixture("labels.yaml"))
	if err != nil {
		t.Fatalf("loadExamples: %v", err)
	}
	if len(examples) != 2 {
		t.Fatalf("expected 2 examples, got %d", len(examples))
	}
	if examples[0].Positives[0] != "X=bob" || examples[0].Negatives[0] != "X=carol" {
		t.Errorf("unexpected example %+v", examples[0])
	}
}

func TestSortSolutions(t *testing.T) {
	got := sortSolutions(map[string]float64{"X=c": 0.1, "X=a": 0.3, "X=b": 0.3})
	want := []string{"X=a", "X=b", "X=c"}
	for i, s := range got {
		if s.Binding != want[i] {
			t.Errorf("position %d: got %s, want %s", i, s.Binding, want[i])
		}
	}
}

func TestPrintAnswers(t *testing.T) {
	var buf bytes.Buffer
	printAnswers(&buf, []Answer{
		{ID: "01J", Query: "q", Solutions: []Solution{{Binding: "X=a", P: 0.5}}},
		{ID: "01K", Query: "r"},
	})
	want := "# 01J q\n1\t0.500000\tX=a\n# 01K r\n(no solutions)\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestEvalCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"eval",
		"--graph", fixture("friends.yaml"),
		"--graph", fixture("samebib.yaml"),
		"--config", fixture("apr.yaml"),
		"--labels", fixture("labels.yaml"),
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !strings.Contains(out.String(), "log=") || !strings.Contains(out.String(), "total=") {
		t.Errorf("unexpected output %q", out.String())
	}
}
