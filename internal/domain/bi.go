package domain

import "time"

// BIStatus is the lifecycle state of a BI.
type BIStatus string

const (
	BIStatusOpen BIStatus = "em_aberto"
	BIStatusDone BIStatus = "concluido"
)

// BaseStatus is the progress state of a source base.
type BaseStatus string

const (
	BaseStatusWaiting    BaseStatus = "aguardando"
	BaseStatusInProgress BaseStatus = "em_andamento"
	BaseStatusPending    BaseStatus = "pendente"
	BaseStatusDone       BaseStatus = "concluido"
)

// Valid reports whether s is one of the known base states.
func (s BaseStatus) Valid() bool {
	switch s {
	case BaseStatusWaiting, BaseStatusInProgress, BaseStatusPending, BaseStatusDone:
		return true
	}
	return false
}

// BI is a business-intelligence report intake record together with its
// source bases.
type BI struct {
	ID          string    `json:"id"`
	Nome        string    `json:"nome"`
	DataInicio  string    `json:"dataInicio"`
	DataFinal   string    `json:"dataFinal"`
	Responsavel string    `json:"responsavel"`
	Operacao    string    `json:"operacao"`
	Status      BIStatus  `json:"status"`
	Inativo     bool      `json:"inativo"`
	CreatedAt   time.Time `json:"createdAt"`
	Bases       []Base    `json:"bases"`
}

// Base is a data source feeding a BI.
type Base struct {
	ID             string     `json:"id"`
	BIID           string     `json:"biId"`
	NomeFerramenta string     `json:"nomeFerramenta"`
	PastaOrigem    string     `json:"pastaOrigem"`
	TemAPI         bool       `json:"temApi"`
	Status         BaseStatus `json:"status"`
	Observacao     *string    `json:"observacao"`
}

// FindBase returns the index of the base with the given id, or -1.
func (b *BI) FindBase(baseID string) int {
	for i := range b.Bases {
		if b.Bases[i].ID == baseID {
			return i
		}
	}
	return -1
}

// AllBasesDone reports whether the BI has at least one base and every base is
// concluded.
func (b *BI) AllBasesDone() bool {
	if len(b.Bases) == 0 {
		return false
	}
	for _, base := range b.Bases {
		if base.Status != BaseStatusDone {
			return false
		}
	}
	return true
}

// ApplyBaseStatus sets the status (and observacao when non-nil) of one base
// and promotes the BI to concluido once all bases are done. The promotion is
// one-way: a BI already concluido stays concluido when a base regresses.
func (b *BI) ApplyBaseStatus(baseID string, status BaseStatus, observacao *string) error {
	if !status.Valid() {
		return NewValidationError("invalid base status: " + string(status))
	}
	idx := b.FindBase(baseID)
	if idx < 0 {
		return ErrBaseNotFound
	}
	b.Bases[idx].Status = status
	if observacao != nil {
		obs := *observacao
		b.Bases[idx].Observacao = &obs
	}
	if b.AllBasesDone() {
		b.Status = BIStatusDone
	}
	return nil
}

// BIPatch carries the mutable BI fields; nil fields are left untouched.
type BIPatch struct {
	Nome        *string `json:"nome,omitempty"`
	DataInicio  *string `json:"dataInicio,omitempty"`
	DataFinal   *string `json:"dataFinal,omitempty"`
	Responsavel *string `json:"responsavel,omitempty"`
	Operacao    *string `json:"operacao,omitempty"`
}

// Apply merges the non-nil fields of p into b.
func (p BIPatch) Apply(b *BI) {
	if p.Nome != nil {
		b.Nome = *p.Nome
	}
	if p.DataInicio != nil {
		b.DataInicio = *p.DataInicio
	}
	if p.DataFinal != nil {
		b.DataFinal = *p.DataFinal
	}
	if p.Responsavel != nil {
		b.Responsavel = *p.Responsavel
	}
	if p.Operacao != nil {
		b.Operacao = *p.Operacao
	}
}
