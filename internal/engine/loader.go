package engine

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/csv"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrMissingColumn is returned when a mapped column is not in the CSV header.
var ErrMissingColumn = errors.New("missing column")

// batchRows bounds how many rows arrow materializes per record batch.
const batchRows = 1 << 16

// Columns maps each dataset field to its CSV header name.
type Columns struct {
	Year         string `yaml:"year"`
	Seniority    string `yaml:"seniority"`
	ContractType string `yaml:"contract_type"`
	CompanySize  string `yaml:"company_size"`
	Role         string `yaml:"role"`
	RemoteType   string `yaml:"remote_type"`
	Country      string `yaml:"residence_country_code"`
	Salary       string `yaml:"salary_usd"`
}

// DefaultColumns matches the headers of the published salary dataset.
func DefaultColumns() Columns {
	return Columns{
		Year:         "ano",
		Seniority:    "senioridade",
		ContractType: "contrato",
		CompanySize:  "tamanho_empresa",
		Role:         "cargo",
		RemoteType:   "remoto",
		Country:      "residencia_iso3",
		Salary:       "usd",
	}
}

func (c Columns) names() []string {
	return []string{c.Year, c.Seniority, c.ContractType, c.CompanySize, c.Role, c.RemoteType, c.Country, c.Salary}
}

func (c Columns) types() map[string]arrow.DataType {
	types := make(map[string]arrow.DataType, 8)
	for _, n := range c.names() {
		types[n] = arrow.BinaryTypes.String
	}
	types[c.Year] = arrow.PrimitiveTypes.Int64
	types[c.Salary] = arrow.PrimitiveTypes.Float64
	return types
}

// dimColumn is one dictionary encoded column being filled by the loader.
type dimColumn struct {
	name string
	enc  *dictEncoder
	ids  *[]int32
	dict *[]string
}

// LoadColumnar reads the CSV at path into a ColumnStore.
func LoadColumnar(path string, cols Columns, logger *zap.Logger) (*ColumnStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return ReadColumnar(f, cols, logger)
}

// ReadColumnar parses CSV with a header row into a ColumnStore.
// Rows with a missing or out of range year, or a missing, negative or
// non-finite salary, are skipped.
func ReadColumnar(r io.Reader, cols Columns, logger *zap.Logger) (*ColumnStore, error) {
	start := time.Now()

	rdr := csv.NewInferringReader(r,
		csv.WithAllocator(memory.NewGoAllocator()),
		csv.WithHeader(true),
		csv.WithNullReader(false, "", "NA", "NaN", "null", "NULL"),
		csv.WithChunk(batchRows),
		csv.WithIncludeColumns(cols.names()),
		csv.WithColumnTypes(cols.types()),
	)
	defer rdr.Release()

	store := &ColumnStore{}
	dims := []*dimColumn{
		{name: cols.Seniority, ids: &store.SeniorityIDs, dict: &store.SeniorityDict},
		{name: cols.ContractType, ids: &store.ContractIDs, dict: &store.ContractDict},
		{name: cols.CompanySize, ids: &store.SizeIDs, dict: &store.SizeDict},
		{name: cols.Role, ids: &store.RoleIDs, dict: &store.RoleDict},
		{name: cols.RemoteType, ids: &store.RemoteIDs, dict: &store.RemoteDict},
		{name: cols.Country, ids: &store.CountryIDs, dict: &store.CountryDict},
	}
	for _, d := range dims {
		d.enc = newDictEncoder()
	}

	skipped := 0
	for rdr.Next() {
		n, err := appendBatch(store, rdr.Record(), cols, dims)
		if err != nil {
			return nil, err
		}
		skipped += n
	}
	if err := rdr.Err(); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	for _, d := range dims {
		*d.dict = d.enc.list
		if *d.dict == nil {
			*d.dict = []string{}
		}
	}

	logger.Info("dataset loaded",
		zap.Int("rows", store.Len()),
		zap.Int("skipped", skipped),
		zap.Int("roles", len(store.RoleDict)),
		zap.Duration("took", time.Since(start)))
	return store, nil
}

// appendBatch copies one arrow record into the store and returns the
// number of rows it skipped.
func appendBatch(store *ColumnStore, rec arrow.Record, cols Columns, dims []*dimColumn) (int, error) {
	years, err := column[*array.Int64](rec, cols.Year)
	if err != nil {
		return 0, err
	}
	salaries, err := column[*array.Float64](rec, cols.Salary)
	if err != nil {
		return 0, err
	}
	strs := make([]*array.String, len(dims))
	for k, d := range dims {
		if strs[k], err = column[*array.String](rec, d.name); err != nil {
			return 0, err
		}
	}

	n := int(rec.NumRows())
	keep := make([]bool, n)
	kept := 0
	for i := 0; i < n; i++ {
		if years.IsNull(i) || salaries.IsNull(i) || !yearInRange(years.Value(i)) {
			continue
		}
		if v := salaries.Value(i); v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		keep[i] = true
		kept++
		store.Years = append(store.Years, int32(years.Value(i)))
		store.Salaries = append(store.Salaries, salaries.Value(i))
	}

	// Each dimension owns its encoder and ID slice, so they encode in parallel.
	var g errgroup.Group
	for k, d := range dims {
		arr := strs[k]
		g.Go(func() error {
			ids := *d.ids
			for i := 0; i < n; i++ {
				if keep[i] {
					ids = append(ids, d.enc.encode(arr.Value(i)))
				}
			}
			*d.ids = ids
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return n - kept, nil
}

func column[T arrow.Array](rec arrow.Record, name string) (T, error) {
	var zero T
	idx := rec.Schema().FieldIndices(name)
	if len(idx) == 0 {
		return zero, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	arr, ok := rec.Column(idx[0]).(T)
	if !ok {
		return zero, fmt.Errorf("column %s: unexpected type %s", name, rec.Column(idx[0]).DataType())
	}
	return arr, nil
}
