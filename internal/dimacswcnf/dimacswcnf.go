// Package dimacswcnf reads and writes the DIMACS CNF and WCNF instance
// formats described in spec.md §6. Plain CNF parsing reuses
// github.com/rhartert/dimacs's streaming Builder interface, the same way
// the teacher's parsers package did; WCNF's per-clause weights have no
// counterpart in that interface, so WCNF parsing is a small hand-rolled
// scanner over the same "p wcnf vars clauses top" / "weight lit... 0" line
// grammar.
package dimacswcnf

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rhartert/dimacs"

	"github.com/itstherealjasper/pumpkin/internal/sat"
)

// CNF is a parsed plain DIMACS CNF instance, in DIMACS's own 1-based,
// sign-as-negation literal convention.
type CNF struct {
	NumVariables int
	Clauses      [][]int
}

// SoftClause is a weighted disjunction from a WCNF instance.
type SoftClause struct {
	Weight   int64
	Literals []int
}

// WCNF is a parsed DIMACS WCNF (weighted partial CNF) instance: hard
// clauses that must be satisfied, and soft clauses that each contribute
// Weight to the objective when left unsatisfied.
type WCNF struct {
	NumVariables int
	Top          int64 // 0 if the instance used the no-top (new) format
	Hard         [][]int
	Soft         []SoftClause
}

func openReader(filename string) (io.ReadCloser, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(filename, ".gz") {
		return f, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return gzipReadCloser{gz, f}, nil
}

type gzipReadCloser struct {
	io.Reader
	file io.Closer
}

func (g gzipReadCloser) Close() error { return g.file.Close() }

// ReadCNF parses a plain DIMACS CNF file.
func ReadCNF(filename string) (*CNF, error) {
	r, err := openReader(filename)
	if err != nil {
		return nil, fmt.Errorf("dimacswcnf: opening %q: %w", filename, err)
	}
	defer r.Close()

	b := &cnfBuilder{}
	if err := dimacs.ReadBuilder(r, b); err != nil {
		return nil, fmt.Errorf("dimacswcnf: parsing %q: %w", filename, err)
	}
	return &CNF{NumVariables: b.nVars, Clauses: b.clauses}, nil
}

type cnfBuilder struct {
	nVars   int
	clauses [][]int
}

func (b *cnfBuilder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("dimacswcnf: expected a cnf problem line, got %q", problem)
	}
	b.nVars = nVars
	b.clauses = make([][]int, 0, nClauses)
	return nil
}

func (b *cnfBuilder) Clause(lits []int) error {
	cl := make([]int, len(lits))
	copy(cl, lits)
	b.clauses = append(b.clauses, cl)
	return nil
}

func (b *cnfBuilder) Comment(string) error { return nil }

// ReadModels parses a models file: one line per model, reusing the DIMACS
// clause grammar with each "clause" actually listing every variable's sign
// for that model (positive = true, negative = false). This is the corpus
// test's expected-output format, unchanged from the teacher's
// parsers.ReadModels.
func ReadModels(filename string) ([][]bool, error) {
	r, err := openReader(filename)
	if err != nil {
		return nil, fmt.Errorf("dimacswcnf: opening %q: %w", filename, err)
	}
	defer r.Close()

	b := &modelBuilder{}
	if err := dimacs.ReadBuilder(r, b); err != nil {
		return nil, fmt.Errorf("dimacswcnf: parsing %q: %w", filename, err)
	}
	return b.models, nil
}

type modelBuilder struct {
	models [][]bool
}

func (b *modelBuilder) Problem(problem string, nVars int, nClauses int) error {
	return fmt.Errorf("dimacswcnf: models files should not have a problem line")
}

func (b *modelBuilder) Comment(string) error { return nil }

func (b *modelBuilder) Clause(lits []int) error {
	model := make([]bool, len(lits))
	for i, l := range lits {
		model[i] = l > 0
	}
	b.models = append(b.models, model)
	return nil
}

// ReadWCNF parses a DIMACS WCNF instance.
func ReadWCNF(filename string) (*WCNF, error) {
	r, err := openReader(filename)
	if err != nil {
		return nil, fmt.Errorf("dimacswcnf: opening %q: %w", filename, err)
	}
	defer r.Close()

	w := &WCNF{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	seenProblem := false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}
		fields := strings.Fields(line)

		if fields[0] == "p" {
			if len(fields) < 4 || fields[1] != "wcnf" {
				return nil, fmt.Errorf("dimacswcnf: expected a wcnf problem line, got %q", line)
			}
			nVars, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("dimacswcnf: bad variable count in %q: %w", line, err)
			}
			w.NumVariables = nVars
			if len(fields) >= 5 {
				top, err := strconv.ParseInt(fields[4], 10, 64)
				if err != nil {
					return nil, fmt.Errorf("dimacswcnf: bad top weight in %q: %w", line, err)
				}
				w.Top = top
			}
			seenProblem = true
			continue
		}
		if !seenProblem {
			return nil, fmt.Errorf("dimacswcnf: clause line before problem line: %q", line)
		}

		weight, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("dimacswcnf: bad clause weight in %q: %w", line, err)
		}
		lits := make([]int, 0, len(fields)-2)
		for _, f := range fields[1:] {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("dimacswcnf: bad literal %q: %w", f, err)
			}
			if v == 0 {
				break
			}
			lits = append(lits, v)
		}

		if w.Top != 0 && weight >= w.Top {
			w.Hard = append(w.Hard, lits)
		} else {
			w.Soft = append(w.Soft, SoftClause{Weight: weight, Literals: lits})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dimacswcnf: reading %q: %w", filename, err)
	}
	return w, nil
}

// LoadCNFInto allocates one fresh solver variable per DIMACS variable of
// cnf and adds every clause, returning the DIMACS-variable-to-sat.Variable
// offset (DIMACS variable v maps to sat.Variable(v)+offset) so callers can
// relate the two numbering schemes afterwards.
func LoadCNFInto(s *sat.Solver, cnf *CNF) (offset sat.Variable, err error) {
	offset = sat.Variable(s.NumVariables())
	for i := 0; i < cnf.NumVariables; i++ {
		s.AddVariable()
	}
	for _, cl := range cnf.Clauses {
		if err := s.AddClause(ToLiterals(cl, offset)); err != nil {
			return offset, err
		}
	}
	return offset, nil
}

// LoadWCNFHardInto is LoadCNFInto's WCNF counterpart: it only installs the
// hard clauses, since soft clauses are the optimization loops' job (they
// decide how to relax each one).
func LoadWCNFHardInto(s *sat.Solver, w *WCNF) (offset sat.Variable, err error) {
	offset = sat.Variable(s.NumVariables())
	for i := 0; i < w.NumVariables; i++ {
		s.AddVariable()
	}
	for _, cl := range w.Hard {
		if err := s.AddClause(ToLiterals(cl, offset)); err != nil {
			return offset, err
		}
	}
	return offset, nil
}

// ToLiterals converts a DIMACS clause (1-based, sign-as-negation) to solver
// literals, shifting every variable by offset.
func ToLiterals(raw []int, offset sat.Variable) []sat.Literal {
	lits := make([]sat.Literal, len(raw))
	for i, v := range raw {
		lits[i] = ToLiteral(v, offset)
	}
	return lits
}

// ToLiteral converts a single DIMACS literal to a solver literal.
func ToLiteral(v int, offset sat.Variable) sat.Literal {
	if v < 0 {
		return sat.NegativeLiteral(sat.Variable(-v) + offset)
	}
	return sat.PositiveLiteral(sat.Variable(v) + offset)
}

// FromLiteral converts a solver literal back to a DIMACS literal, reversing
// the offset LoadCNFInto/LoadWCNFHardInto applied.
func FromLiteral(l sat.Literal, offset sat.Variable) int {
	v := int(l.VarID() - offset)
	if l.IsPositive() {
		return v
	}
	return -v
}

// WriteCNF writes cnf in DIMACS CNF format to w.
func WriteCNF(w io.Writer, cnf *CNF) error {
	if _, err := fmt.Fprintf(w, "p cnf %d %d\n", cnf.NumVariables, len(cnf.Clauses)); err != nil {
		return err
	}
	for _, cl := range cnf.Clauses {
		if err := writeClauseLine(w, cl); err != nil {
			return err
		}
	}
	return nil
}

// WriteWCNF writes w in DIMACS WCNF format to out.
func WriteWCNF(out io.Writer, w *WCNF) error {
	top := w.Top
	if top == 0 {
		top = 1
		for _, sc := range w.Soft {
			top += sc.Weight
		}
	}
	if _, err := fmt.Fprintf(out, "p wcnf %d %d %d\n", w.NumVariables, len(w.Hard)+len(w.Soft), top); err != nil {
		return err
	}
	for _, cl := range w.Hard {
		if _, err := fmt.Fprintf(out, "%d ", top); err != nil {
			return err
		}
		if err := writeClauseLine(out, cl); err != nil {
			return err
		}
	}
	for _, sc := range w.Soft {
		if _, err := fmt.Fprintf(out, "%d ", sc.Weight); err != nil {
			return err
		}
		if err := writeClauseLine(out, sc.Literals); err != nil {
			return err
		}
	}
	return nil
}

func writeClauseLine(w io.Writer, lits []int) error {
	sb := strings.Builder{}
	for _, l := range lits {
		sb.WriteString(strconv.Itoa(l))
		sb.WriteByte(' ')
	}
	sb.WriteString("0\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// DumpPermanentClauses reads back every permanent clause currently in s's
// arena as a CNF instance, used by the "dump" CLI subcommand to inspect
// what hardening/reformulation produced.
func DumpPermanentClauses(s *sat.Solver, offset sat.Variable) *CNF {
	alloc := s.Allocator()
	cnf := &CNF{NumVariables: s.NumVariables() - int(offset)}
	for _, ref := range s.PermanentRefs() {
		c := alloc.View(ref)
		cl := make([]int, c.Size())
		for i := 0; i < c.Size(); i++ {
			cl[i] = FromLiteral(c.Lit(i), offset)
		}
		cnf.Clauses = append(cnf.Clauses, cl)
	}
	return cnf
}
