package entity

import (
	coreEntity "github.com/SujalTripathi/slotswapper/core/entity"
)

type User struct {
	Name         string `db:"name" json:"name"`
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
	coreEntity.BaseEntity
}
