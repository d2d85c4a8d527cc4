// C:\Users\wasab\OneDrive\デスクトップ\SHOP\ledger\ledger.go
package ledger

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"shop/config"
	"shop/model"
)

// テストから差し替えられるように変数にしておく
var getConfig = config.GetConfig

// WriteError は台帳への書き込み失敗です。このエラーが返った注文は
// 「確定していない」ものとして扱わなければなりません。
type WriteError struct {
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("ledger write failed: %v", e.Cause)
}

func (e *WriteError) Unwrap() error { return e.Cause }

const (
	timeLayout   = "2006-01-02 15:04:05"
	purchaseMark = "PURCHASE:"
)

// Ledger は追記専用の注文台帳（テキストファイル）です。1行が注文1件で、
// 書き込みはミュータックスで直列化されます。ここが注文履歴の正本で、
// order_archive（DB）はここから導出されるミラーに過ぎません。
// path が空の場合は設定の ledgerPath をアクセスのたびに参照します。
type Ledger struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Ledger {
	return &Ledger{path: path}
}

func (l *Ledger) filePath() string {
	if l.path != "" {
		return l.path
	}
	return getConfig().LedgerPath
}

// FormatLine は台帳の1行を組み立てます。
// 例: 2025-10-14 21:03:08 PURCHASE: Order: Steve - Diamond x3 = $360
func FormatLine(record model.OrderRecord) string {
	return fmt.Sprintf("%s %s Order: %s - %s x%d = $%d",
		record.OrderedAt.Format(timeLayout), purchaseMark,
		record.PlayerName, record.ItemName, record.Quantity, record.TotalCost)
}

// Append は注文1件を台帳に追記します。1行を1回のwriteで書き、
// fsyncしてから返るため、行が途中で切れることはありません。
func (l *Ledger) Append(record model.OrderRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.filePath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return &WriteError{Cause: err}
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(record) + "\n"); err != nil {
		return &WriteError{Cause: err}
	}
	if err := f.Sync(); err != nil {
		return &WriteError{Cause: err}
	}
	return nil
}

// Recent は末尾 n 件の行を追記順で返します。ファイルが無い・読めない
// 場合は空で返します（表示用なのでエラーにしません）。
func (l *Ledger) Recent(n int) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	lines := l.readLines()
	if n <= 0 || len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}

// CountForDay は指定日の注文件数を台帳の全行スキャンで数え直します。
// カウンタは保持しません。ファイルが読めない場合は 0 を返します。
func (l *Ledger) CountForDay(day time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	prefix := day.Format("2006-01-02")
	count := 0
	for _, line := range l.readLines() {
		if strings.HasPrefix(line, prefix) && strings.Contains(line, purchaseMark) {
			count++
		}
	}
	return count
}

func (l *Ledger) readLines() []string {
	path := l.filePath()
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN: failed to open ledger %s: %v", path, err)
		}
		return nil
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("WARN: failed to read ledger %s: %v", path, err)
	}
	return lines
}
