package shipments

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/shiptrack/internal/calc"
	"github.com/odyssey-erp/shiptrack/internal/shared"
)

const dateLayout = "2006-01-02"

type createRequest struct {
	ShipmentName   string `json:"shipmentName" validate:"required,max=200"`
	ShipmentNumber string `json:"shipmentNumber" validate:"required,max=200"`
}

type updateRequest struct {
	ShipmentName     *string `json:"shipmentName" validate:"omitempty,max=200"`
	ShipmentNumber   *string `json:"shipmentNumber" validate:"omitempty,max=200"`
	BackendMasterKey *string `json:"backendMasterKey" validate:"omitempty,max=200"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// itemRequest accepts cou and total for compatibility with older clients;
// both are ignored and re-derived.
type itemRequest struct {
	ID         int64            `json:"id" validate:"gte=0"`
	SupplierID int64            `json:"supplierId" validate:"required,gt=0"`
	ItemTypeID int64            `json:"itemTypeId" validate:"required,gt=0"`
	Ctn        int64            `json:"ctn" validate:"gte=0"`
	PcsPerCtn  int64            `json:"pcsPerCtn" validate:"gte=0"`
	Pri        *decimal.Decimal `json:"pri" validate:"required"`
	Cou        json.RawMessage  `json:"cou,omitempty"`
	Total      json.RawMessage  `json:"total,omitempty"`
}

func (r itemRequest) input() ItemInput {
	return ItemInput{
		ID:         r.ID,
		SupplierID: r.SupplierID,
		ItemTypeID: r.ItemTypeID,
		Ctn:        r.Ctn,
		PcsPerCtn:  r.PcsPerCtn,
		Pri:        *r.Pri,
	}
}

type replaceItemsRequest struct {
	Items []itemRequest `json:"items" validate:"required,dive"`
}

type importingRequest struct {
	CommissionPercent *decimal.Decimal `json:"commissionPercent"`
	ShipmentCost      *decimal.Decimal `json:"shipmentCost"`
	ShipmentSpaceM2   *decimal.Decimal `json:"shipmentSpaceM2"`
	// Derived on the server; accepted and ignored.
	TotalShipmentPrice json.RawMessage `json:"totalShipmentPrice,omitempty"`
	CommissionAmount   json.RawMessage `json:"commissionAmount,omitempty"`
}

// customsRequest carries billDate as YYYY-MM-DD; an empty string clears it.
type customsRequest struct {
	BillDate            *string         `json:"billDate"`
	TotalPiecesAdjusted *int64          `json:"totalPiecesAdjusted" validate:"omitempty,gte=0"`
	TotalPiecesRecorded json.RawMessage `json:"totalPiecesRecorded,omitempty"`
	LossOrDamagePieces  json.RawMessage `json:"lossOrDamagePieces,omitempty"`
}

func (r customsRequest) input() (CustomsInput, error) {
	var in CustomsInput
	in.TotalPiecesAdjusted = r.TotalPiecesAdjusted
	if r.BillDate == nil {
		return in, nil
	}
	if *r.BillDate == "" {
		in.ClearBillDate = true
		return in, nil
	}
	d, err := time.Parse(dateLayout, *r.BillDate)
	if err != nil {
		return CustomsInput{}, shared.FieldError("billDate", "must match format "+dateLayout)
	}
	in.BillDate = &d
	return in, nil
}

type perTypeRequest struct {
	ItemTypeID      *int64           `json:"itemTypeId" validate:"omitempty,gt=0"`
	TotalPcsPerType *int64           `json:"totalPcsPerType" validate:"omitempty,gte=0"`
	TotalCtnPerType *int64           `json:"totalCtnPerType" validate:"omitempty,gte=0"`
	PaidCustoms     *decimal.Decimal `json:"paidCustoms"`
	Takhreg         *decimal.Decimal `json:"takhreg"`
}

func (r perTypeRequest) input() PerTypeInput {
	return PerTypeInput{
		ItemTypeID:      r.ItemTypeID,
		TotalPcsPerType: r.TotalPcsPerType,
		TotalCtnPerType: r.TotalCtnPerType,
		PaidCustoms:     r.PaidCustoms,
		Takhreg:         r.Takhreg,
	}
}

type shipmentResponse struct {
	ID               int64     `json:"id"`
	ShipmentName     string    `json:"shipmentName"`
	ShipmentNumber   string    `json:"shipmentNumber"`
	BackendMasterKey string    `json:"backendMasterKey"`
	Status           string    `json:"status"`
	CreatedByID      string    `json:"createdById"`
	UpdatedByID      string    `json:"updatedById"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func toShipmentResponse(s Shipment) shipmentResponse {
	return shipmentResponse{
		ID:               s.ID,
		ShipmentName:     s.Name,
		ShipmentNumber:   s.Number,
		BackendMasterKey: s.BackendMasterKey,
		Status:           string(s.Status),
		CreatedByID:      s.CreatedByID,
		UpdatedByID:      s.UpdatedByID,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

type listResponse struct {
	Data       []shipmentResponse `json:"data"`
	Pagination shared.Pagination  `json:"pagination"`
}

type transitionResponse struct {
	Shipment      shipmentResponse `json:"shipment"`
	From          string           `json:"from"`
	To            string           `json:"to"`
	CustomsSeeded bool             `json:"customsSeeded"`
}

type itemResponse struct {
	ID         int64  `json:"id"`
	ShipmentID int64  `json:"shipmentId"`
	SupplierID int64  `json:"supplierId"`
	ItemTypeID int64  `json:"itemTypeId"`
	Ctn        int64  `json:"ctn"`
	PcsPerCtn  int64  `json:"pcsPerCtn"`
	Cou        int64  `json:"cou"`
	Pri        string `json:"pri"`
	Total      string `json:"total"`
}

func toItemResponse(it Item) itemResponse {
	return itemResponse{
		ID:         it.ID,
		ShipmentID: it.ShipmentID,
		SupplierID: it.SupplierID,
		ItemTypeID: it.ItemTypeID,
		Ctn:        it.Ctn,
		PcsPerCtn:  it.PcsPerCtn,
		Cou:        it.Cou,
		Pri:        calc.FormatMoney(it.Pri),
		Total:      calc.FormatMoney(it.Total),
	}
}

type itemsResponse struct {
	Items       []itemResponse `json:"items"`
	TotalPieces int64          `json:"totalPieces"`
	TotalPrice  string         `json:"totalPrice"`
}

func toItemsResponse(v ItemsView) itemsResponse {
	out := itemsResponse{
		Items:       make([]itemResponse, 0, len(v.Items)),
		TotalPieces: v.TotalPieces,
		TotalPrice:  calc.FormatMoney(v.TotalPrice),
	}
	for _, it := range v.Items {
		out.Items = append(out.Items, toItemResponse(it))
	}
	return out
}

type importingResponse struct {
	ShipmentID         int64  `json:"shipmentId"`
	TotalShipmentPrice string `json:"totalShipmentPrice"`
	CommissionPercent  string `json:"commissionPercent"`
	CommissionAmount   string `json:"commissionAmount"`
	ShipmentCost       string `json:"shipmentCost"`
	ShipmentSpaceM2    string `json:"shipmentSpaceM2"`
}

func toImportingResponse(d ImportingDetails) importingResponse {
	return importingResponse{
		ShipmentID:         d.ShipmentID,
		TotalShipmentPrice: calc.FormatMoney(d.TotalShipmentPrice),
		CommissionPercent:  calc.FormatMoney(d.CommissionPercent),
		CommissionAmount:   calc.FormatMoney(d.CommissionAmount),
		ShipmentCost:       calc.FormatMoney(d.ShipmentCost),
		ShipmentSpaceM2:    calc.FormatSpace(d.ShipmentSpaceM2),
	}
}

type customsRecordResponse struct {
	ID                  int64   `json:"id"`
	ShipmentID          int64   `json:"shipmentId"`
	BillDate            *string `json:"billDate"`
	TotalPiecesRecorded int64   `json:"totalPiecesRecorded"`
	TotalPiecesAdjusted int64   `json:"totalPiecesAdjusted"`
	LossOrDamagePieces  int64   `json:"lossOrDamagePieces"`
}

type perTypeResponse struct {
	ID              int64  `json:"id"`
	CustomsID       int64  `json:"customsId"`
	ItemTypeID      int64  `json:"itemTypeId"`
	TotalPcsPerType int64  `json:"totalPcsPerType"`
	TotalCtnPerType int64  `json:"totalCtnPerType"`
	PaidCustoms     string `json:"paidCustoms"`
	Takhreg         string `json:"takhreg"`
}

func toPerTypeResponse(p CustomsPerType) perTypeResponse {
	return perTypeResponse{
		ID:              p.ID,
		CustomsID:       p.CustomsID,
		ItemTypeID:      p.ItemTypeID,
		TotalPcsPerType: p.TotalPcsPerType,
		TotalCtnPerType: p.TotalCtnPerType,
		PaidCustoms:     calc.FormatMoney(p.PaidCustoms),
		Takhreg:         calc.FormatMoney(p.Takhreg),
	}
}

type customsResponse struct {
	ShipmentID       int64                  `json:"shipmentId"`
	Status           string                 `json:"status"`
	Visibility       string                 `json:"visibility"`
	Customs          *customsRecordResponse `json:"customs"`
	PerType          []perTypeResponse      `json:"perType"`
	TotalPaidCustoms string                 `json:"totalPaidCustoms"`
	TotalTakhreg     string                 `json:"totalTakhreg"`
}

func toCustomsResponse(v CustomsView) customsResponse {
	out := customsResponse{
		ShipmentID:       v.ShipmentID,
		Status:           string(v.Status),
		Visibility:       string(v.Visibility),
		PerType:          make([]perTypeResponse, 0, len(v.PerType)),
		TotalPaidCustoms: calc.FormatMoney(v.TotalPaidCustoms),
		TotalTakhreg:     calc.FormatMoney(v.TotalTakhreg),
	}
	if c := v.Customs; c != nil {
		rec := customsRecordResponse{
			ID:                  c.ID,
			ShipmentID:          c.ShipmentID,
			TotalPiecesRecorded: c.TotalPiecesRecorded,
			TotalPiecesAdjusted: c.TotalPiecesAdjusted,
			LossOrDamagePieces:  c.LossOrDamagePieces,
		}
		if c.BillDate != nil {
			d := c.BillDate.Format(dateLayout)
			rec.BillDate = &d
		}
		out.Customs = &rec
	}
	for _, p := range v.PerType {
		out.PerType = append(out.PerType, toPerTypeResponse(p))
	}
	return out
}
