package data

import (
	"context"
	"time"
)

func Handlectx() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	return ctx, cancel
}

type Models struct {
	Txns  TxnModel
	Users UserModel
}

func NewModel(tables map[Category]Table, users Table, loc *time.Location) Models {
	return Models{
		Txns:  TxnModel{Tables: tables, Loc: loc},
		Users: UserModel{Table: users},
	}
}
