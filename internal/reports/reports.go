// Package reports implements the outbound value records §6 names as
// queryable ("Reports queryable"): OrderStatusReport, TradeReport,
// PositionStatusReport, ExecutionMassStatus. OrderStatusReport, TradeReport
// and PositionStatusReport round-trip through ToDict/FromDict as well as
// MarshalJSON/UnmarshalJSON, since §6 explicitly names `to_dict`/`from_dict`
// alongside the idiomatic Go path. ExecutionMassStatus serializes only
// (ToDict/MarshalJSON); it has no FromDict or UnmarshalJSON.
// Decimal fields serialize as strings and enums as canonical UPPERCASE
// names, per §6 "Serialization".
package reports

import (
	"encoding/json"
	"fmt"

	"github.com/jclangner/nautilus-trader/internal/account"
	"github.com/jclangner/nautilus-trader/internal/instrument"
	"github.com/jclangner/nautilus-trader/internal/orders"
)

// OrderStatusReport snapshots one order's observable state.
type OrderStatusReport struct {
	ClientOrderID string
	VenueOrderID  string
	InstrumentID  instrument.ID
	Status        orders.Status
	Side          orders.Side
	Kind          orders.Kind
	Quantity      string
	FilledQty     string
	LeavesQty     string
	AvgPx         string
	TsLast        int64
}

// NewOrderStatusReport builds a report from the order's current state.
func NewOrderStatusReport(o *orders.Order) OrderStatusReport {
	return OrderStatusReport{
		ClientOrderID: o.ClientOrderID,
		VenueOrderID:  o.VenueOrderID,
		InstrumentID:  o.InstrumentID,
		Status:        o.Status,
		Side:          o.Side,
		Kind:          o.Kind,
		Quantity:      o.Quantity.String(),
		FilledQty:     o.FilledQty.String(),
		LeavesQty:     o.LeavesQty().String(),
		AvgPx:         o.AvgPx.String(),
		TsLast:        o.TsLast,
	}
}

func (r OrderStatusReport) ToDict() map[string]any {
	return map[string]any{
		"client_order_id": r.ClientOrderID,
		"venue_order_id":  r.VenueOrderID,
		"instrument_id":   r.InstrumentID.String(),
		"status":          string(r.Status),
		"side":            string(r.Side),
		"kind":            string(r.Kind),
		"quantity":        r.Quantity,
		"filled_qty":      r.FilledQty,
		"leaves_qty":      r.LeavesQty,
		"avg_px":          r.AvgPx,
		"ts_last":         r.TsLast,
	}
}

func (r *OrderStatusReport) FromDict(d map[string]any) error {
	var ok bool
	if r.ClientOrderID, ok = d["client_order_id"].(string); !ok {
		return fmt.Errorf("reports: order_status_report missing client_order_id")
	}
	r.VenueOrderID, _ = d["venue_order_id"].(string)
	if sym, _ := d["instrument_id"].(string); sym != "" {
		r.InstrumentID = parseInstrumentID(sym)
	}
	r.Status = orders.Status(stringField(d, "status"))
	r.Side = orders.Side(stringField(d, "side"))
	r.Kind = orders.Kind(stringField(d, "kind"))
	r.Quantity = stringField(d, "quantity")
	r.FilledQty = stringField(d, "filled_qty")
	r.LeavesQty = stringField(d, "leaves_qty")
	r.AvgPx = stringField(d, "avg_px")
	r.TsLast = int64Field(d, "ts_last")
	return nil
}

func (r OrderStatusReport) MarshalJSON() ([]byte, error)   { return json.Marshal(r.ToDict()) }
func (r *OrderStatusReport) UnmarshalJSON(b []byte) error {
	var d map[string]any
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	return r.FromDict(d)
}

// TradeReport snapshots one executed fill.
type TradeReport struct {
	TradeID         string
	ClientOrderID   string
	VenueOrderID    string
	VenuePositionID string
	InstrumentID    instrument.ID
	Side            orders.Side
	LastQty         string
	LastPx          string
	Commission      string
	CommissionCcy   string
	LiquiditySide   string
	TsEvent         int64
}

func (r TradeReport) ToDict() map[string]any {
	return map[string]any{
		"trade_id":          r.TradeID,
		"client_order_id":   r.ClientOrderID,
		"venue_order_id":    r.VenueOrderID,
		"venue_position_id": r.VenuePositionID,
		"instrument_id":     r.InstrumentID.String(),
		"side":              string(r.Side),
		"last_qty":          r.LastQty,
		"last_px":           r.LastPx,
		"commission":        r.Commission,
		"commission_ccy":    r.CommissionCcy,
		"liquidity_side":    r.LiquiditySide,
		"ts_event":          r.TsEvent,
	}
}

func (r *TradeReport) FromDict(d map[string]any) error {
	var ok bool
	if r.TradeID, ok = d["trade_id"].(string); !ok {
		return fmt.Errorf("reports: trade_report missing trade_id")
	}
	r.ClientOrderID = stringField(d, "client_order_id")
	r.VenueOrderID = stringField(d, "venue_order_id")
	r.VenuePositionID = stringField(d, "venue_position_id")
	if sym, _ := d["instrument_id"].(string); sym != "" {
		r.InstrumentID = parseInstrumentID(sym)
	}
	r.Side = orders.Side(stringField(d, "side"))
	r.LastQty = stringField(d, "last_qty")
	r.LastPx = stringField(d, "last_px")
	r.Commission = stringField(d, "commission")
	r.CommissionCcy = stringField(d, "commission_ccy")
	r.LiquiditySide = stringField(d, "liquidity_side")
	r.TsEvent = int64Field(d, "ts_event")
	return nil
}

func (r TradeReport) MarshalJSON() ([]byte, error) { return json.Marshal(r.ToDict()) }
func (r *TradeReport) UnmarshalJSON(b []byte) error {
	var d map[string]any
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	return r.FromDict(d)
}

// PositionStatusReport snapshots one position's current state.
type PositionStatusReport struct {
	PositionID   string
	InstrumentID instrument.ID
	Side         account.Side
	NetQty       string
	AvgOpenPx    string
	RealizedPnL  string
	RealizedCcy  string
	OpenedAtNs   int64
	ClosedAtNs   int64
}

// NewPositionStatusReport builds a report from a live Position.
func NewPositionStatusReport(p *account.Position) PositionStatusReport {
	return PositionStatusReport{
		PositionID:   p.ID,
		InstrumentID: p.InstrumentID,
		Side:         p.Side,
		NetQty:       p.NetQty.String(),
		AvgOpenPx:    p.AvgOpenPx.String(),
		RealizedPnL:  p.RealizedPnL.Amount().String(),
		RealizedCcy:  p.RealizedPnL.Currency.Code,
		OpenedAtNs:   p.OpenedAtNs,
		ClosedAtNs:   p.ClosedAtNs,
	}
}

func (r PositionStatusReport) ToDict() map[string]any {
	return map[string]any{
		"position_id":   r.PositionID,
		"instrument_id": r.InstrumentID.String(),
		"side":          string(r.Side),
		"net_qty":       r.NetQty,
		"avg_open_px":   r.AvgOpenPx,
		"realized_pnl":  r.RealizedPnL,
		"realized_ccy":  r.RealizedCcy,
		"opened_at_ns":  r.OpenedAtNs,
		"closed_at_ns":  r.ClosedAtNs,
	}
}

func (r *PositionStatusReport) FromDict(d map[string]any) error {
	var ok bool
	if r.PositionID, ok = d["position_id"].(string); !ok {
		return fmt.Errorf("reports: position_status_report missing position_id")
	}
	if sym, _ := d["instrument_id"].(string); sym != "" {
		r.InstrumentID = parseInstrumentID(sym)
	}
	r.Side = account.Side(stringField(d, "side"))
	r.NetQty = stringField(d, "net_qty")
	r.AvgOpenPx = stringField(d, "avg_open_px")
	r.RealizedPnL = stringField(d, "realized_pnl")
	r.RealizedCcy = stringField(d, "realized_ccy")
	r.OpenedAtNs = int64Field(d, "opened_at_ns")
	r.ClosedAtNs = int64Field(d, "closed_at_ns")
	return nil
}

func (r PositionStatusReport) MarshalJSON() ([]byte, error) { return json.Marshal(r.ToDict()) }
func (r *PositionStatusReport) UnmarshalJSON(b []byte) error {
	var d map[string]any
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	return r.FromDict(d)
}

// ExecutionMassStatus bundles every report kind queryable for a mass-status
// request (§6 "ExecutionMassStatus{order_reports, trade_reports,
// position_reports}").
type ExecutionMassStatus struct {
	OrderReports    []OrderStatusReport
	TradeReports    []TradeReport
	PositionReports []PositionStatusReport
}

func (r ExecutionMassStatus) ToDict() map[string]any {
	orderDicts := make([]map[string]any, len(r.OrderReports))
	for i, o := range r.OrderReports {
		orderDicts[i] = o.ToDict()
	}
	tradeDicts := make([]map[string]any, len(r.TradeReports))
	for i, t := range r.TradeReports {
		tradeDicts[i] = t.ToDict()
	}
	posDicts := make([]map[string]any, len(r.PositionReports))
	for i, p := range r.PositionReports {
		posDicts[i] = p.ToDict()
	}
	return map[string]any{
		"order_reports":    orderDicts,
		"trade_reports":    tradeDicts,
		"position_reports": posDicts,
	}
}

func (r ExecutionMassStatus) MarshalJSON() ([]byte, error) { return json.Marshal(r.ToDict()) }

func stringField(d map[string]any, key string) string {
	s, _ := d[key].(string)
	return s
}

func int64Field(d map[string]any, key string) int64 {
	switch v := d[key].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// parseInstrumentID splits a "SYMBOL.VENUE"-formatted string back into an
// instrument.ID, the inverse of instrument.ID.String().
func parseInstrumentID(s string) instrument.ID {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return instrument.ID{Symbol: s[:i], Venue: s[i+1:]}
		}
	}
	return instrument.ID{Symbol: s}
}
