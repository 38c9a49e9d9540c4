package devserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Veraticus/finanmaster/internal/common"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const msgBadDate = "Data inválida. Use o formato YYYY-MM-DD."

// transactionBody has pointer fields so updates can tell absent from empty.
type transactionBody struct {
	Description *string          `json:"description"`
	Value       *decimal.Decimal `json:"value"`
	Category    *string          `json:"category"`
	Type        *string          `json:"type"`
	Date        *string          `json:"date"`
}

// apply copies the present fields onto tx. It returns the message of the
// first invalid field.
func (b transactionBody) apply(tx *model.Transaction) string {
	if b.Description != nil {
		tx.Description = strings.TrimSpace(*b.Description)
	}
	if b.Value != nil {
		if b.Value.IsNegative() {
			return "Valor não pode ser negativo."
		}
		tx.Value = *b.Value
	}
	if b.Category != nil {
		tx.Category = strings.TrimSpace(*b.Category)
	}
	if b.Type != nil {
		typ := model.TransactionType(*b.Type)
		if !typ.Valid() {
			return "Tipo inválido. Use Receita ou Despesa."
		}
		tx.Type = typ
	}
	if b.Date != nil && *b.Date != "" {
		d, err := model.ParseDate(*b.Date)
		if err != nil {
			return msgBadDate
		}
		tx.Date = d
	}
	return ""
}

func (b transactionBody) missing() string {
	switch {
	case b.Description == nil || strings.TrimSpace(*b.Description) == "":
		return "description"
	case b.Value == nil:
		return "value"
	case b.Category == nil || strings.TrimSpace(*b.Category) == "":
		return "category"
	case b.Type == nil:
		return "type"
	case b.Date == nil || *b.Date == "":
		return "date"
	}
	return ""
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil && id > 0
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	txs, err := s.db.listTransactions(r.Context(), userID(r))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(txs, s.now()))
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	txs, err := s.db.listTransactions(r.Context(), userID(r))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, monthlyReport(txs, s.now().Year()))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.db.listTransactions(r.Context(), userID(r))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var body transactionBody
	if err := decodeBody(r, &body); err != nil {
		fail(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	if field := body.missing(); field != "" {
		fail(w, http.StatusBadRequest, "Campo obrigatório: "+field+".")
		return
	}

	var tx model.Transaction
	if msg := body.apply(&tx); msg != "" {
		fail(w, http.StatusBadRequest, msg)
		return
	}
	if _, err := s.db.insertTransaction(r.Context(), userID(r), tx.Payload()); err != nil {
		s.internalError(w, r, err)
		return
	}
	ok(w, "Transação adicionada com sucesso!")
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(r)
	if !valid {
		fail(w, http.StatusNotFound, "Transação não encontrada.")
		return
	}
	var body transactionBody
	if err := decodeBody(r, &body); err != nil {
		fail(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}

	tx, err := s.db.transaction(r.Context(), userID(r), id)
	if errors.Is(err, common.ErrNotFound) {
		fail(w, http.StatusNotFound, "Transação não encontrada.")
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	if msg := body.apply(&tx); msg != "" {
		fail(w, http.StatusBadRequest, msg)
		return
	}
	if err := s.db.updateTransaction(r.Context(), userID(r), tx); err != nil {
		s.internalError(w, r, err)
		return
	}
	ok(w, "Transação atualizada com sucesso!")
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(r)
	if !valid {
		fail(w, http.StatusNotFound, "Transação não encontrada.")
		return
	}
	err := s.db.deleteTransaction(r.Context(), userID(r), id)
	if errors.Is(err, common.ErrNotFound) {
		fail(w, http.StatusNotFound, "Transação não encontrada.")
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	ok(w, "Transação removida com sucesso!")
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.db.listGoals(r.Context(), userID(r))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Current  *decimal.Decimal `json:"current"`
		Target   *decimal.Decimal `json:"target"`
		Title    string           `json:"title"`
		Deadline string           `json:"deadline"`
		Icon     string           `json:"icon"`
	}
	if err := decodeBody(r, &body); err != nil {
		fail(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}

	switch {
	case strings.TrimSpace(body.Title) == "":
		fail(w, http.StatusBadRequest, "Campo obrigatório: title.")
		return
	case body.Target == nil:
		fail(w, http.StatusBadRequest, "Campo obrigatório: target.")
		return
	case body.Deadline == "":
		fail(w, http.StatusBadRequest, "Campo obrigatório: deadline.")
		return
	}
	deadline, err := model.ParseDate(body.Deadline)
	if err != nil {
		fail(w, http.StatusBadRequest, msgBadDate)
		return
	}

	p := model.GoalPayload{
		Title:    strings.TrimSpace(body.Title),
		Target:   *body.Target,
		Current:  decimal.Zero,
		Deadline: deadline,
		Icon:     body.Icon,
	}
	if body.Current != nil {
		p.Current = *body.Current
	}
	if p.Icon == "" {
		p.Icon = model.DefaultGoalIcon
	}

	if err := s.db.insertGoal(r.Context(), userID(r), p); err != nil {
		s.internalError(w, r, err)
		return
	}
	ok(w, "Meta adicionada com sucesso!")
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(r)
	if !valid {
		fail(w, http.StatusNotFound, "Meta não encontrada.")
		return
	}
	var body struct {
		Current *decimal.Decimal `json:"current"`
	}
	if err := decodeBody(r, &body); err != nil || body.Current == nil {
		fail(w, http.StatusBadRequest, "Campo obrigatório: current.")
		return
	}

	err := s.db.setGoalCurrent(r.Context(), userID(r), id, *body.Current)
	if errors.Is(err, common.ErrNotFound) {
		fail(w, http.StatusNotFound, "Meta não encontrada.")
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	ok(w, "Progresso atualizado com sucesso!")
}

func (s *Server) handleListBudget(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	rows, err := s.db.budgetRows(r.Context(), userID(r), now)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	txs, err := s.db.listTransactions(r.Context(), userID(r))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, budgetLines(rows, txs, now))
}

type budgetBody struct {
	Amount   *decimal.Decimal `json:"budget_amount"`
	Category string           `json:"category"`
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var body budgetBody
	if err := decodeBody(r, &body); err != nil {
		fail(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	category := strings.TrimSpace(body.Category)
	if category == "" {
		fail(w, http.StatusBadRequest, "Categoria é obrigatória.")
		return
	}
	if body.Amount == nil {
		fail(w, http.StatusBadRequest, "Campo obrigatório: budget_amount.")
		return
	}

	p := model.BudgetPayload{Category: category, BudgetAmount: *body.Amount}
	if err := s.db.insertBudget(r.Context(), userID(r), s.now(), p); err != nil {
		s.internalError(w, r, err)
		return
	}
	ok(w, "Orçamento adicionado com sucesso!")
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var body budgetBody
	if err := decodeBody(r, &body); err != nil {
		fail(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	category := strings.TrimSpace(body.Category)
	if category == "" {
		fail(w, http.StatusBadRequest, "Categoria é obrigatória.")
		return
	}
	if body.Amount == nil {
		fail(w, http.StatusBadRequest, "Campo obrigatório: budget_amount.")
		return
	}

	err := s.db.updateBudget(r.Context(), userID(r), s.now(), model.BudgetPayload{Category: category, BudgetAmount: *body.Amount})
	if errors.Is(err, common.ErrNotFound) {
		fail(w, http.StatusNotFound, "Orçamento não encontrado para esta categoria.")
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	ok(w, "Orçamento atualizado.")
}
