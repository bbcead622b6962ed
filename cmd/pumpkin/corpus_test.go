package main

// TestSolveAll mirrors the teacher's yass_test.go: it verifies that the
// solver finds the exact set of models for every instance bundled under
// testdataDir, the same way that test verified YASS against instances with
// pre-computed MiniSAT/Glucose solutions.

import (
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/itstherealjasper/pumpkin/internal/dimacswcnf"
	"github.com/itstherealjasper/pumpkin/internal/sat"
)

var testdataDir = "../../testdata/sat"

type satTestCase struct {
	instanceName string
	instanceFile string
	modelsFile   string
}

func listSATTestCases(dir string) ([]satTestCase, error) {
	var cases []satTestCase
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".cnf") {
			return nil
		}
		cases = append(cases, satTestCase{
			instanceName: d.Name(),
			instanceFile: path,
			modelsFile:   path + ".models",
		})
		return nil
	})
	return cases, err
}

func modelToString(model []bool) string {
	b := make([]byte, len(model))
	for i, v := range model {
		if v {
			b[i] = 1
		}
	}
	return string(b)
}

func modelSet(models [][]bool) map[string]struct{} {
	set := make(map[string]struct{}, len(models))
	for _, m := range models {
		set[modelToString(m)] = struct{}{}
	}
	return set
}

// solveAll enumerates every model of s by repeatedly blocking the last one
// found, the same way the teacher's yass_test.go did (flip each literal of
// the found model into a forbidding clause). Model()[0] is always the
// reserved root variable (permanently true, see NewSolver), so it is
// dropped from the returned models: instance files only name the variables
// they themselves declared.
func solveAll(s *sat.Solver) [][]bool {
	var models [][]bool
	for {
		status, _ := s.Solve(nil)
		if status != sat.StatusSAT {
			return models
		}
		model := s.Model()

		visible := make([]bool, len(model)-1)
		copy(visible, model[1:])
		models = append(models, visible)

		block := make([]sat.Literal, len(model))
		for i, v := range model {
			if v {
				block[i] = sat.NegativeLiteral(sat.Variable(i + 1))
			} else {
				block[i] = sat.PositiveLiteral(sat.Variable(i + 1))
			}
		}
		s.BacktrackToRoot()
		if err := s.AddClause(block); err != nil {
			return models
		}
	}
}

func TestSolveAll(t *testing.T) {
	cases, err := listSATTestCases(testdataDir)
	if err != nil {
		t.Fatalf("listing test cases: %v", err)
	}
	if len(cases) == 0 {
		t.Fatal("no test cases found under " + testdataDir)
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.instanceName, func(t *testing.T) {
			t.Parallel()

			want, err := dimacswcnf.ReadModels(tc.modelsFile)
			if err != nil {
				t.Fatalf("reading models file: %v", err)
			}

			cnf, err := dimacswcnf.ReadCNF(tc.instanceFile)
			if err != nil {
				t.Fatalf("parsing instance: %v", err)
			}

			s := sat.NewSolver(sat.DefaultOptions, nil)
			if _, err := dimacswcnf.LoadCNFInto(s, cnf); err != nil {
				t.Fatalf("loading instance: %v", err)
			}

			got := solveAll(s)
			if len(got) != len(want) {
				t.Errorf("model count = %d, want %d", len(got), len(want))
			}
			if !cmp.Equal(modelSet(got), modelSet(want)) {
				t.Errorf("model set mismatch for %s", tc.instanceName)
			}
		})
	}
}
