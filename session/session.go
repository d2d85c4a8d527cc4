// C:\Users\wasab\OneDrive\デスクトップ\SHOP\session\session.go
package session

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"shop/model"
)

// InvalidOrderError は注文確定の前提条件違反です。このエラーが返る場合、
// 台帳への追記も通知も一切行われていません。
type InvalidOrderError struct {
	Reason string
}

func (e *InvalidOrderError) Error() string {
	return fmt.Sprintf("invalid order: %s", e.Reason)
}

// Appender は注文を台帳へ追記します（ledger.Ledger が実装）。
type Appender interface {
	Append(record model.OrderRecord) error
}

// Sink は注文サマリをベストエフォートで通知します（notify.Notifier が実装）。
type Sink interface {
	Send(record model.OrderRecord) bool
}

// Total は現在の選択から導出した合計です。選択なし・数量不正・価格不明の
// 場合は安全なゼロ値になります（エラーにはなりません）。
type Total struct {
	ItemName  string `json:"itemName"`
	UnitPrice int    `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	TotalCost int    `json:"totalCost"`
}

// Session は単一選択の注文セッションです。選択中の品目は常に高々1つで、
// 別の品目を選ぶと前の選択は丸ごと置き換わります。数量は確定時まで
// 生テキストのまま保持します。
type Session struct {
	mu           sync.Mutex
	selectedItem string
	quantityText string

	now func() time.Time
}

func New() *Session {
	return &Session{now: time.Now}
}

// Select は品目を選択します。選択済みの状態で呼んでも、新しい品目に
// そのまま置き換わります。
func (s *Session) Select(item string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedItem = item
}

// Clear は選択と数量テキストを破棄します。
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedItem = ""
	s.quantityText = ""
}

// SetQuantityText は数量の生テキストをそのまま保持します。
// 妥当性の検査は合計計算と注文確定のときに行われます。
func (s *Session) SetQuantityText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quantityText = text
}

// Selected は現在選択中の品目を返します。
func (s *Session) Selected() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedItem, s.selectedItem != ""
}

// parseQuantity は数量テキストを正の整数として解釈します。
func parseQuantity(text string) (int, bool) {
	q, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || q <= 0 {
		return 0, false
	}
	return q, true
}

// ComputeTotal は現在の選択に対する合計を導出します。未選択・数量不正・
// 価格不明のどの場合もゼロ値の Total を返し、決して失敗しません。
func (s *Session) ComputeTotal(cat *model.Catalog) Total {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selectedItem == "" {
		return Total{}
	}
	price, ok := cat.Price(s.selectedItem)
	if !ok {
		return Total{}
	}

	t := Total{ItemName: s.selectedItem, UnitPrice: price}
	if q, ok := parseQuantity(s.quantityText); ok {
		t.Quantity = q
		t.TotalCost = price * q
	}
	return t
}

// Submit は注文を確定します。前提条件（選択あり・正の整数数量・既知の
// 価格）を満たさなければ *InvalidOrderError を返し、副作用はありません。
// 条件を満たした場合は台帳へ追記し（失敗なら *ledger.WriteError がそのまま
// 返り、通知は行われません）、その後ベストエフォートで通知します。
// 前提条件を通過した後は、結果にかかわらずセッションは空に戻ります。
// 追記と通知はロックの外で行うため、通知先が遅くても選択や合計計算は
// ブロックされません。
func (s *Session) Submit(playerName string, cat *model.Catalog, appender Appender, sink Sink) (model.OrderResult, error) {
	record, err := s.takeOrder(playerName, cat)
	if err != nil {
		return model.OrderResult{}, err
	}

	if err := appender.Append(record); err != nil {
		return model.OrderResult{Record: record}, err
	}

	notified := sink.Send(record)
	return model.OrderResult{Record: record, Recorded: true, Notified: notified}, nil
}

// takeOrder は前提条件を検査して注文レコードを作り、セッションを空に
// 戻します。ここまでがロック区間で、違反時は状態を保ったまま返します。
func (s *Session) takeOrder(playerName string, cat *model.Catalog) (model.OrderRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selectedItem == "" {
		return model.OrderRecord{}, &InvalidOrderError{Reason: "no item selected"}
	}
	quantity, ok := parseQuantity(s.quantityText)
	if !ok {
		return model.OrderRecord{}, &InvalidOrderError{Reason: "quantity must be a positive number"}
	}
	price, ok := cat.Price(s.selectedItem)
	if !ok {
		return model.OrderRecord{}, &InvalidOrderError{Reason: "no price known for " + s.selectedItem}
	}

	record := model.OrderRecord{
		ID:               uuid.NewString(),
		PlayerName:       playerName,
		ItemName:         s.selectedItem,
		Quantity:         quantity,
		UnitPriceAtOrder: price,
		TotalCost:        price * quantity,
		OrderedAt:        s.now(),
	}

	s.selectedItem = ""
	s.quantityText = ""
	return record, nil
}
