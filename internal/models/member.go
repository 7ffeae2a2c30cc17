package models

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Member is a row of the member table. The id is chosen by the caller and
// never changes once saved.
type Member struct {
	MemberID string `json:"member_id" validate:"required,max=10"`
	Money    int    `json:"money"`
}

func NewMember(id string, money int) Member { return Member{MemberID: id, Money: money} }

func (m Member) Validate() error { return validate.Struct(m) }
