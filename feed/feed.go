// C:\Users\wasab\OneDrive\デスクトップ\SHOP\feed\feed.go
package feed

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"shop/model"
)

// FormatError はペイロードの構造自体が不正（メタデータ行＋データ行の
// 最低構成を満たさない）な場合のエラーです。そのフェッチは失敗扱いになります。
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("feed format error: %s", e.Reason)
}

// ErrNoValidRows は全行がスキップされ、有効な品目が1件も得られなかった
// 場合に返されます。
var ErrNoValidRows = errors.New("feed contains no valid rows")

// 価格シートの列は位置固定です（1列目=品目名, 3列目=調整後価格）。
// ヘッダー名ベースに変えるとシート側の列名変更に追従できますが、
// 配信元との互換のため位置ベースを維持しています。
const (
	colItemName      = 0
	colAdjustedPrice = 2
	minColumns       = 3
)

// SkipBOM はUTF-8 BOMをスキップします。
func SkipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	bom := []byte{0xEF, 0xBB, 0xBF}
	peeked, err := br.Peek(3)
	if err != nil {
		return br
	}
	isBOM := true
	for i, b := range bom {
		if peeked[i] != b {
			isBOM = false
			break
		}
	}
	if isBOM {
		br.Read(make([]byte, 3))
	}
	return br
}

// PayloadReader はフェッチ済みペイロードをパース可能な形に整えます。
// encoding が "sjis" の場合は Shift-JIS → UTF-8 変換を挟みます。
func PayloadReader(r io.Reader, encoding string) io.Reader {
	if strings.EqualFold(encoding, "sjis") {
		r = transform.NewReader(r, japanese.ShiftJIS.NewDecoder())
	}
	return SkipBOM(r)
}

// Parse は価格シートのペイロードを model.Catalog に変換します。
// 1行目はメタデータ行（末尾トークンが通貨供給量、パース不能なら0）、
// 2行目以降がCSVデータ行です。不正な行は警告ログを出してスキップし、
// 有効行が0件のときだけ ErrNoValidRows を返します。
func Parse(r io.Reader) (*model.Catalog, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &FormatError{Reason: fmt.Sprintf("failed to read payload: %v", err)}
	}

	headerLine, rest, found := strings.Cut(string(raw), "\n")
	if strings.TrimSpace(headerLine) == "" {
		return nil, &FormatError{Reason: "payload is empty"}
	}
	if !found || strings.TrimSpace(rest) == "" {
		return nil, &FormatError{Reason: "payload has no data lines"}
	}

	moneySupply := 0
	tokens := strings.Fields(headerLine)
	if len(tokens) > 0 {
		if v, perr := strconv.Atoi(tokens[len(tokens)-1]); perr == nil {
			moneySupply = v
		} else {
			log.Printf("WARN: metadata line %q has no numeric money supply, defaulting to 0", strings.TrimSpace(headerLine))
		}
	}

	reader := csv.NewReader(strings.NewReader(rest))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	entries := make(map[string]model.CatalogEntry)
	line := 1
	for {
		line++
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("WARN: feed line %d read error (skipped): %v", line, err)
			continue
		}

		if len(rec) < minColumns {
			log.Printf("WARN: feed line %d has %d columns, need %d (skipped)", line, len(rec), minColumns)
			continue
		}

		name := strings.TrimSpace(rec[colItemName])
		if name == "" {
			log.Printf("WARN: feed line %d has empty item name (skipped)", line)
			continue
		}

		price, perr := strconv.Atoi(strings.TrimSpace(rec[colAdjustedPrice]))
		if perr != nil {
			log.Printf("WARN: feed line %d has invalid price %q for %s (skipped)", line, rec[colAdjustedPrice], name)
			continue
		}
		if price < 0 {
			log.Printf("WARN: feed line %d has negative price %d for %s (skipped)", line, price, name)
			continue
		}

		entries[name] = model.CatalogEntry{Name: name, UnitPrice: price}
	}

	if len(entries) == 0 {
		return nil, ErrNoValidRows
	}

	return &model.Catalog{
		Entries:     entries,
		MoneySupply: moneySupply,
	}, nil
}
