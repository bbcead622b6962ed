package main

// TestOptimizeAll exercises the two optimization loops end-to-end against
// bundled WCNF instances with known optimal costs, the MaxSAT counterpart
// of TestSolveAll. There is no teacher precedent for a weighted corpus (the
// teacher only ever solved plain CNF), so this test is grounded directly on
// spec.md §8's worked end-to-end scenarios instead: testdata/wcnf's two
// instances are those scenarios encoded as WCNF.

import (
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/itstherealjasper/pumpkin/internal/dimacswcnf"
	"github.com/itstherealjasper/pumpkin/internal/intdomain"
	"github.com/itstherealjasper/pumpkin/internal/optimize"
	"github.com/itstherealjasper/pumpkin/internal/sat"
)

var wcnfTestdataDir = "../../testdata/wcnf"

type wcnfTestCase struct {
	instanceName string
	instanceFile string
	costFile     string
}

func listWCNFTestCases(dir string) ([]wcnfTestCase, error) {
	var cases []wcnfTestCase
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".wcnf") {
			return nil
		}
		cases = append(cases, wcnfTestCase{
			instanceName: d.Name(),
			instanceFile: path,
			costFile:     path + ".cost",
		})
		return nil
	})
	return cases, err
}

func readExpectedCost(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading cost file: %v", err)
	}
	cost, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		t.Fatalf("parsing cost file %s: %v", path, err)
	}
	return cost
}

func TestOptimizeAll(t *testing.T) {
	cases, err := listWCNFTestCases(wcnfTestdataDir)
	if err != nil {
		t.Fatalf("listing test cases: %v", err)
	}
	if len(cases) == 0 {
		t.Fatal("no test cases found under " + wcnfTestdataDir)
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.instanceName, func(t *testing.T) {
			t.Parallel()

			wantCost := readExpectedCost(t, tc.costFile)

			wcnf, err := dimacswcnf.ReadWCNF(tc.instanceFile)
			if err != nil {
				t.Fatalf("parsing instance: %v", err)
			}

			s := sat.NewSolver(sat.DefaultOptions, nil)
			offset, err := dimacswcnf.LoadWCNFHardInto(s, wcnf)
			if err != nil {
				t.Fatalf("loading hard clauses: %v", err)
			}

			reformVars := make([]*intdomain.IntVar, len(wcnf.Soft))
			weights := make([]int, len(wcnf.Soft))
			ubTerms := make([]optimize.Term, len(wcnf.Soft))
			trivialUB := 0
			for i, sc := range wcnf.Soft {
				r := s.AddVariable()
				lits := append(dimacswcnf.ToLiterals(sc.Literals, offset), sat.PositiveLiteral(r))
				if err := s.AddClause(lits); err != nil {
					t.Fatalf("installing soft clause: %v", err)
				}
				weight := int(sc.Weight)
				reformVars[i] = intdomain.CreateEquivalentVariable(s, sat.PositiveLiteral(r))
				weights[i] = weight
				ubTerms[i] = optimize.Term{Weight: weight, Lit: sat.PositiveLiteral(r)}
				trivialUB += weight
			}

			reformTerms := optimize.NewReformTerms(reformVars, weights)
			lb := optimize.CoreGuidedSearch(s, reformTerms, optimize.StratBasic)
			if lb.Status == sat.StatusUnknown {
				t.Fatal("lower-bound search should not time out with no deadline set")
			}

			ub := optimize.UpperBoundSearch(s, ubTerms, 0, trivialUB+1, optimize.SolutionGuided)
			if ub.Status != sat.StatusUNSAT {
				t.Fatalf("upper-bound search status = %v, want UNSAT (proven optimal)", ub.Status)
			}
			if ub.Cost != wantCost {
				t.Errorf("optimal cost = %d, want %d", ub.Cost, wantCost)
			}
			if lb.LowerBound > ub.Cost {
				t.Errorf("lower bound %d exceeds the proven optimum %d", lb.LowerBound, ub.Cost)
			}
		})
	}
}
