package folio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/folioworks/folio/date"
)

const attrOn = "on"
const marketDataFilesGlob = "[0-9][0-9][0-9][0-9].jsonl"

// This file contains code to persist market data in a folder, in a way that is
// still human-readable and git-friendly.
//
// The folder holds a definition file (one asset per line) and one JSONL file
// per year, each line carrying the closes of a single day:
//
//	{"on":"2025-07-01","AAPL":"110","GOOG":"180.5"}

// decodeAssets parses the definition file, one asset per line.
// filename is for error messages only.
func (m *MarketData) decodeAssets(filename string, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var a Asset
		if err := json.Unmarshal(line, &a); err != nil {
			return fmt.Errorf("format error in %q on line %q: %w", filename, string(line), err)
		}
		if err := m.Declare(a); err != nil {
			return fmt.Errorf("format error in %q: %w", filename, err)
		}
	}
	return nil
}

// fileLine structures a line from a collection of files as the persistence layer represent them.
type fileLine struct {
	filename string
	i        int
	txt      string
}

// loadLines read all lines from a set of files and return them in list of structured lines.
func loadLines(filenames ...string) (list []fileLine, err error) {
	list = make([]fileLine, 0, 100000)
	for _, filename := range filenames {
		i := 0
		r, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("cannot open %q for reading: %w", filename, err)
		}
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			i++
			txt := scanner.Text()
			list = append(list, fileLine{filename, i, txt})
		}
		r.Close()
	}
	return list, nil
}

// decodeDailyPrices decodes a single line from the persisted price files.
func decodeDailyPrices(m *MarketData, l fileLine) error {
	if strings.TrimSpace(l.txt) == "" {
		return nil
	}

	jobj := make(map[string]any)
	if err := json.Unmarshal([]byte(l.txt), &jobj); err != nil {
		return fmt.Errorf("parse error %s:%v: not a correct json: %w", l.filename, l.i, err)
	}

	jvalue, ok := jobj[attrOn]
	if !ok {
		return fmt.Errorf("parse error %s:%v: missing the property %q with a date", l.filename, l.i, attrOn)
	}
	jstring, ok := jvalue.(string)
	if !ok {
		return fmt.Errorf("parse error %s:%v: property %q must be of type 'string'", l.filename, l.i, attrOn)
	}

	on, err := date.Parse(jstring)
	if err != nil {
		return fmt.Errorf("parse error %s:%v: property %q must be a valid date: %w", l.filename, l.i, attrOn, err)
	}

	// Read all other attributes as (symbol, price) pairs.
	for symbol, price := range jobj {
		if symbol == attrOn {
			// reserved word for the date
			continue
		}

		var d decimal.Decimal
		switch p := price.(type) {
		case string:
			d, err = decimal.NewFromString(p)
			if err != nil {
				return fmt.Errorf("parse error %s:%v: property %q is not a decimal: %w", l.filename, l.i, symbol, err)
			}
		case float64:
			d = decimal.NewFromFloat(p)
		default:
			return fmt.Errorf("parse error %s:%v: property %q must be a number or a decimal string", l.filename, l.i, symbol)
		}

		asset, exists := m.Get(symbol)
		if !exists {
			return fmt.Errorf("parse error %s:%v: property %q must be a declared asset", l.filename, l.i, symbol)
		}
		if err := m.AddPrice(symbol, on, M(d, asset.Currency)); err != nil {
			return fmt.Errorf("parse error %s:%v: %w", l.filename, l.i, err)
		}
	}
	return nil
}

// DecodeMarketData reads a folder containing asset definitions and prices,
// and returns a MarketData object.
func DecodeMarketData(definitionFile string) (*MarketData, error) {
	folder := filepath.Dir(definitionFile)
	m := NewMarketData()

	f, err := os.Open(definitionFile)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil // Empty database.
		}
		return nil, fmt.Errorf("load error: cannot open market definition file %q: %w", definitionFile, err)
	}
	defer f.Close()

	if err := m.decodeAssets(definitionFile, f); err != nil {
		return nil, fmt.Errorf("load error: cannot read market definition file: %w", err)
	}

	filenames, err := filepath.Glob(filepath.Join(folder, marketDataFilesGlob))
	if err != nil {
		return nil, fmt.Errorf("load error: cannot scan folder %q for market data files: %w", folder, err)
	}

	lines, err := loadLines(filenames...)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		if err := decodeDailyPrices(m, line); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// encodeAssets encodes the asset definitions into a jsonl stream, sorted by
// symbol for stable output.
func encodeAssets(w io.Writer, m *MarketData) error {
	var sorted []Asset
	for a := range m.Assets() {
		sorted = append(sorted, a)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Symbol < sorted[j].Symbol })

	for _, a := range sorted {
		data, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("persist error: cannot marshal asset %q: %w", a.Symbol, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("persist error: cannot write to file: %w", err)
		}
	}
	return nil
}

// encodeDailyPrices persists a single day line in a price jsonl file.
// Returns bare io errors.
func encodeDailyPrices(w io.Writer, day date.Date, symbols []string, prices []Money) error {
	var jw jsonObjectWriter
	jw.Append(attrOn, day.String())
	for i, symbol := range symbols {
		jw.Append(symbol, prices[i].Decimal())
	}

	b, err := jw.MarshalJSON()
	if err != nil {
		return err
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return err
	}
	return nil
}

// EncodeMarketData encodes the market data into a folder, creating a
// definition file and one JSONL price file per year. Price files from a
// previous encode that no longer hold data are deleted.
func EncodeMarketData(definitionFile string, m *MarketData) error {
	folder := filepath.Dir(definitionFile)

	f, err := os.Create(definitionFile)
	if err != nil {
		return fmt.Errorf("persist error: cannot create file %q: %w", definitionFile, err)
	}
	defer f.Close()

	if err := encodeAssets(f, m); err != nil {
		return err
	}

	// Collect the union of priced days across all assets, sorted by symbol
	// within a day for stable output.
	var sorted []Asset
	for a := range m.Assets() {
		sorted = append(sorted, a)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Symbol < sorted[j].Symbol })

	daySet := make(map[date.Date]struct{})
	for _, a := range sorted {
		for day := range m.Prices(a.Symbol) {
			daySet[day] = struct{}{}
		}
	}
	days := make([]date.Date, 0, len(daySet))
	for day := range daySet {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var currentFile *os.File
	var currentFilename string
	var createdFiles = make(map[string]struct{})
	for _, day := range days {
		filename := filepath.Join(folder, fmt.Sprintf("%d.jsonl", day.Year()))
		if currentFilename != filename {
			currentFilename = filename
			currentFile, err = os.Create(currentFilename)
			if err != nil {
				return fmt.Errorf("persist error: cannot create file %q: %w", currentFilename, err)
			}
			createdFiles[currentFilename] = struct{}{}
			defer currentFile.Close()
		}

		var symbols []string
		var prices []Money
		for _, a := range sorted {
			if price, ok := m.PriceOn(a.Symbol, day); ok {
				symbols = append(symbols, a.Symbol)
				prices = append(prices, price)
			}
		}
		if err := encodeDailyPrices(currentFile, day, symbols, prices); err != nil {
			return fmt.Errorf("persist error: write error on file %q: %w", currentFilename, err)
		}
	}

	// Delete extraneous files.
	filenames, err := filepath.Glob(filepath.Join(folder, marketDataFilesGlob))
	if err != nil {
		return fmt.Errorf("persist error: cannot scan folder %q for market data files to be deleted: %w", folder, err)
	}
	for _, filename := range filenames {
		if _, ok := createdFiles[filename]; ok {
			continue
		}
		if err := os.Remove(filename); err != nil {
			return fmt.Errorf("persist error: cannot delete file %q: %w", filename, err)
		}
	}
	return nil
}
