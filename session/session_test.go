// C:\Users\wasab\OneDrive\デスクトップ\SHOP\session\session_test.go
package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop/ledger"
	"shop/model"
)

type fakeAppender struct {
	records []model.OrderRecord
	err     error
}

func (a *fakeAppender) Append(record model.OrderRecord) error {
	if a.err != nil {
		return a.err
	}
	a.records = append(a.records, record)
	return nil
}

type fakeSink struct {
	sent   []model.OrderRecord
	result bool
}

func (s *fakeSink) Send(record model.OrderRecord) bool {
	s.sent = append(s.sent, record)
	return s.result
}

// blockingSink は Send で解放されるまでブロックする通知先です。
type blockingSink struct {
	entered chan struct{}
	release chan struct{}
}

func (s *blockingSink) Send(record model.OrderRecord) bool {
	close(s.entered)
	<-s.release
	return true
}

func testCatalog() *model.Catalog {
	return &model.Catalog{
		Entries: map[string]model.CatalogEntry{
			"Diamond": {Name: "Diamond", UnitPrice: 120},
			"Gold":    {Name: "Gold", UnitPrice: 0},
		},
	}
}

func TestComputeTotal_SafeDefaults(t *testing.T) {
	cat := testCatalog()

	tests := []struct {
		name     string
		item     string
		quantity string
	}{
		{"no selection", "", "3"},
		{"empty quantity", "Diamond", ""},
		{"non-numeric quantity", "Diamond", "abc"},
		{"zero quantity", "Diamond", "0"},
		{"negative quantity", "Diamond", "-2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := New()
			if tt.item != "" {
				sess.Select(tt.item)
			}
			sess.SetQuantityText(tt.quantity)

			total := sess.ComputeTotal(cat)
			assert.Equal(t, 0, total.TotalCost)
			assert.Equal(t, 0, total.Quantity)
		})
	}
}

func TestComputeTotal_UnknownItem(t *testing.T) {
	sess := New()
	sess.Select("Bedrock")
	sess.SetQuantityText("3")

	total := sess.ComputeTotal(testCatalog())
	assert.Equal(t, Total{}, total)
}

func TestComputeTotal_NilCatalog(t *testing.T) {
	sess := New()
	sess.Select("Diamond")
	sess.SetQuantityText("3")

	assert.Equal(t, Total{}, sess.ComputeTotal(nil))
}

func TestComputeTotal_Valid(t *testing.T) {
	sess := New()
	sess.Select("Diamond")
	sess.SetQuantityText(" 3 ")

	total := sess.ComputeTotal(testCatalog())
	assert.Equal(t, Total{ItemName: "Diamond", UnitPrice: 120, Quantity: 3, TotalCost: 360}, total)
}

func TestSelect_ReplacesPriorSelection(t *testing.T) {
	sess := New()
	sess.Select("Diamond")
	sess.Select("Gold")

	item, ok := sess.Selected()
	require.True(t, ok)
	assert.Equal(t, "Gold", item)
}

func TestClear(t *testing.T) {
	sess := New()
	sess.Select("Diamond")
	sess.SetQuantityText("3")
	sess.Clear()

	_, ok := sess.Selected()
	assert.False(t, ok)
	assert.Equal(t, Total{}, sess.ComputeTotal(testCatalog()))
}

func TestSubmit_Success(t *testing.T) {
	sess := New()
	now := time.Date(2025, 10, 14, 21, 3, 8, 0, time.UTC)
	sess.now = func() time.Time { return now }
	sess.Select("Diamond")
	sess.SetQuantityText("3")

	appender := &fakeAppender{}
	sink := &fakeSink{result: true}

	result, err := sess.Submit("Steve", testCatalog(), appender, sink)
	require.NoError(t, err)

	require.Len(t, appender.records, 1)
	rec := appender.records[0]
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "Steve", rec.PlayerName)
	assert.Equal(t, "Diamond", rec.ItemName)
	assert.Equal(t, 3, rec.Quantity)
	assert.Equal(t, 120, rec.UnitPriceAtOrder)
	assert.Equal(t, 360, rec.TotalCost)
	assert.Equal(t, now, rec.OrderedAt)

	assert.True(t, result.Recorded)
	assert.True(t, result.Notified)
	require.Len(t, sink.sent, 1)

	_, ok := sess.Selected()
	assert.False(t, ok)
}

func TestSubmit_NotificationFailureStillSucceeds(t *testing.T) {
	sess := New()
	sess.Select("Diamond")
	sess.SetQuantityText("2")

	appender := &fakeAppender{}
	sink := &fakeSink{result: false}

	result, err := sess.Submit("Alex", testCatalog(), appender, sink)
	require.NoError(t, err)

	assert.True(t, result.Recorded)
	assert.False(t, result.Notified)
	assert.Len(t, appender.records, 1)

	// 通知が失敗してもセッションは空に戻る
	_, ok := sess.Selected()
	assert.False(t, ok)
}

func TestSubmit_PreconditionViolations(t *testing.T) {
	tests := []struct {
		name     string
		item     string
		quantity string
	}{
		{"no selection", "", "3"},
		{"non-numeric quantity", "Diamond", "three"},
		{"zero quantity", "Diamond", "0"},
		{"unknown price", "Bedrock", "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := New()
			if tt.item != "" {
				sess.Select(tt.item)
			}
			sess.SetQuantityText(tt.quantity)

			appender := &fakeAppender{}
			sink := &fakeSink{result: true}

			_, err := sess.Submit("Steve", testCatalog(), appender, sink)

			var invalid *InvalidOrderError
			require.ErrorAs(t, err, &invalid)

			// 副作用なし: 追記も通知も行われない
			assert.Empty(t, appender.records)
			assert.Empty(t, sink.sent)

			// 前提条件違反では選択は破棄されない
			if tt.item != "" {
				item, ok := sess.Selected()
				assert.True(t, ok)
				assert.Equal(t, tt.item, item)
			}
		})
	}
}

func TestSubmit_SlowNotificationDoesNotBlockSession(t *testing.T) {
	sess := New()
	sess.Select("Diamond")
	sess.SetQuantityText("3")

	sink := &blockingSink{entered: make(chan struct{}), release: make(chan struct{})}
	done := make(chan struct{})
	go func() {
		defer close(done)
		result, err := sess.Submit("Steve", testCatalog(), &fakeAppender{}, sink)
		assert.NoError(t, err)
		assert.True(t, result.Notified)
	}()
	<-sink.entered

	// 通知の送信中でも、次の客の選択や合計計算は待たされない
	opsDone := make(chan struct{})
	go func() {
		defer close(opsDone)
		sess.Select("Gold")
		sess.ComputeTotal(testCatalog())
	}()
	select {
	case <-opsDone:
	case <-time.After(2 * time.Second):
		t.Fatal("session operations blocked while a notification was in flight")
	}

	close(sink.release)
	<-done
}

func TestSubmit_LedgerFailureSkipsNotification(t *testing.T) {
	sess := New()
	sess.Select("Diamond")
	sess.SetQuantityText("3")

	appender := &fakeAppender{err: &ledger.WriteError{Cause: fmt.Errorf("disk full")}}
	sink := &fakeSink{result: true}

	_, err := sess.Submit("Steve", testCatalog(), appender, sink)

	var writeErr *ledger.WriteError
	require.ErrorAs(t, err, &writeErr)

	// 台帳に書けなかった注文は通知してはならない
	assert.Empty(t, sink.sent)

	_, ok := sess.Selected()
	assert.False(t, ok)
}

func TestSubmit_ZeroPriceItemIsOrderable(t *testing.T) {
	sess := New()
	sess.Select("Gold")
	sess.SetQuantityText("5")

	appender := &fakeAppender{}
	sink := &fakeSink{result: true}

	result, err := sess.Submit("Steve", testCatalog(), appender, sink)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Record.TotalCost)
}
