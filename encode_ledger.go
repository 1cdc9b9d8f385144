package contract

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// EncodeTransactions writes txs as JSONL, one transaction per line.
func EncodeTransactions(w io.Writer, txs []Transaction) error {
	enc := json.NewEncoder(w)
	for _, t := range txs {
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("cannot encode transaction %s: %w", t.ID, err)
		}
	}
	return nil
}

// Import is the result of decoding a JSONL stream.
type Import struct {
	Entries []Entry
	Skipped int // lines ignored because they do not affect a balance
}

// DecodeImport reads JSONL lines and returns the entries they describe.
//
// Two line formats are accepted:
//   - the export format of EncodeTransactions: a "kind" and an integer
//     "amount" in minor units.
//   - a pcs portfolio ledger line: a "command" and a decimal "amount" in
//     major units with its "currency", which must be currency. Only deposit
//     and withdraw commands are kept, the others are counted as skipped.
//
// Empty lines are ignored.
func DecodeImport(r io.Reader, currency string) (Import, error) {
	var imp Import
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		entry, ok, err := decodeLine(line, currency)
		if err != nil {
			return Import{}, fmt.Errorf("line %d: %w", n, err)
		}
		if !ok {
			imp.Skipped++
			continue
		}
		imp.Entries = append(imp.Entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return Import{}, fmt.Errorf("cannot read import: %w", err)
	}
	return imp, nil
}

func decodeLine(line []byte, currency string) (Entry, bool, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	var obj any
	if err := dec.Decode(&obj); err != nil {
		return Entry{}, false, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, ok := obj.(map[string]any); !ok {
		return Entry{}, false, fmt.Errorf("not a JSON object")
	}

	if kind, ok := lookupString("$.kind", obj); ok {
		num, ok := lookup("$.amount", obj).(json.Number)
		if !ok {
			return Entry{}, false, fmt.Errorf("%w: missing amount", ErrInvalidAmount)
		}
		amount, err := num.Int64()
		if err != nil {
			return Entry{}, false, fmt.Errorf("%w: %s is not an integer amount", ErrInvalidAmount, num)
		}
		return Entry{Kind: Kind(kind), Amount: amount}, true, nil
	}

	command, ok := lookupString("$.command", obj)
	if !ok {
		return Entry{}, false, fmt.Errorf("neither kind nor command found")
	}
	kind := Kind(command)
	if !kind.Valid() {
		return Entry{}, false, nil
	}
	if cur, _ := lookupString("$.currency", obj); cur != currency {
		return Entry{}, false, fmt.Errorf("%s in %q, want %q", command, cur, currency)
	}
	num, ok := lookup("$.amount", obj).(json.Number)
	if !ok {
		return Entry{}, false, fmt.Errorf("%w: missing amount", ErrInvalidAmount)
	}
	amount, err := decimal.NewFromString(num.String())
	if err != nil {
		return Entry{}, false, fmt.Errorf("%w: %s", ErrInvalidAmount, num)
	}
	m, err := FromDecimal(amount, currency)
	if err != nil {
		return Entry{}, false, err
	}
	return Entry{Kind: kind, Amount: m.Minor()}, true, nil
}

// lookup returns the value at path, nil if there is none.
func lookup(path string, obj any) any {
	v, err := jsonpath.Get(path, obj)
	if err != nil {
		return nil
	}
	// a path may resolve to a list of one match.
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return nil
		}
		v = list[0]
	}
	return v
}

func lookupString(path string, obj any) (string, bool) {
	s, ok := lookup(path, obj).(string)
	return s, ok
}
