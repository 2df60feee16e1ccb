package apitest

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/expensify/internal/transaction"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var errInvalidID = errors.New("invalid id")

type transactionRequest struct {
	CategoryID  string           `json:"category_id"`
	Type        transaction.Type `json:"type"`
	Amount      decimal.Decimal  `json:"amount"`
	Description string           `json:"description"`
	Date        time.Time        `json:"date"`
}

// transactionResponse mirrors transaction.Transaction with the amount sent
// as a JSON number, as the real backend does.
type transactionResponse struct {
	ID            string           `json:"id"`
	CategoryID    string           `json:"category_id"`
	CategoryName  string           `json:"category_name"`
	CategoryColor string           `json:"category_color"`
	CategoryIcon  string           `json:"category_icon"`
	Type          transaction.Type `json:"type"`
	Amount        json.Number      `json:"amount"`
	Description   string           `json:"description"`
	Date          time.Time        `json:"date"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type pageResponse struct {
	Items      []transactionResponse `json:"items"`
	Total      int                   `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func toResponse(tx transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:            tx.ID,
		CategoryID:    tx.CategoryID,
		CategoryName:  tx.CategoryName,
		CategoryColor: tx.CategoryColor,
		CategoryIcon:  tx.CategoryIcon,
		Type:          tx.Type,
		Amount:        number(tx.Amount),
		Description:   tx.Description,
		Date:          tx.Date,
		CreatedAt:     tx.CreatedAt,
		UpdatedAt:     tx.UpdatedAt,
	}
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return def
	}

	return v
}

// listTransactions pages through the user's transactions, newest date first.
func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	page := max(queryInt(r, "page", 1), 1)

	pageSize := queryInt(r, "page_size", defaultPageSize)
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	uid := userID(r)

	s.mu.Lock()
	var own []transaction.Transaction

	for _, tx := range s.txs {
		if tx.userID == uid {
			own = append(own, tx.Transaction)
		}
	}
	s.mu.Unlock()

	slices.SortStableFunc(own, func(a, b transaction.Transaction) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}

		return b.CreatedAt.Compare(a.CreatedAt)
	})

	resp := pageResponse{
		Items:      []transactionResponse{},
		Total:      len(own),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: transaction.TotalPages(len(own), pageSize),
	}

	start := (page - 1) * pageSize
	for i := start; i < len(own) && i < start+pageSize; i++ {
		resp.Items = append(resp.Items, toResponse(own[i]))
	}

	writeJSON(w, http.StatusOK, resp)
}

func decodeTransaction(w http.ResponseWriter, r *http.Request) (transactionRequest, bool) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}

	if req.Amount.IsZero() || req.CategoryID == "" {
		writeError(w, http.StatusBadRequest, "amount and category_id are required")
		return req, false
	}

	if !req.Type.Valid() {
		writeError(w, http.StatusBadRequest, "invalid type")
		return req, false
	}

	return req, true
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTransaction(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	tx, err := s.createTxLocked(userID(r), req.CategoryID, req.Type, req.Amount, req.Description, req.Date)
	s.mu.Unlock()

	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(tx))
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTransaction(w, r)
	if !ok {
		return
	}

	uid := userID(r)
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.txs, func(tx *storedTx) bool {
		return tx.ID == id && tx.userID == uid
	})
	if idx < 0 {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}

	cat, ok := s.categoryLocked(uid, req.CategoryID)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	tx := s.txs[idx]
	tx.CategoryID = cat.ID
	tx.CategoryName = cat.Name
	tx.CategoryColor = cat.Color
	tx.CategoryIcon = cat.Icon
	tx.Type = req.Type
	tx.Amount = req.Amount
	tx.Description = req.Description
	tx.Date = req.Date.UTC()
	tx.UpdatedAt = s.now()

	writeJSON(w, http.StatusOK, toResponse(tx.Transaction))
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.txs, func(tx *storedTx) bool {
		return tx.ID == id && tx.userID == uid
	})
	if idx < 0 {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}

	s.txs = slices.Delete(s.txs, idx, idx+1)

	w.WriteHeader(http.StatusNoContent)
}
