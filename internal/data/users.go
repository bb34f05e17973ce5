package data

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// UserModel stores manager/agent credentials as [ID, sha256(password)] rows
// in the users worksheet of the same spreadsheet.
type UserModel struct {
	Table Table
}

func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func (u UserModel) Exists(userID string) (bool, error) {
	ctx, cancel := Handlectx()
	defer cancel()

	_, rows, err := u.Table.ReadAll(ctx)
	if err != nil {
		return false, fmt.Errorf("read users sheet: %w", err)
	}

	for _, row := range rows {
		if Str(row["ID"]) == userID {
			return true, nil
		}
	}
	return false, nil
}

func (u UserModel) Add(userID, password string) error {
	ctx, cancel := Handlectx()
	defer cancel()

	row := []interface{}{userID, HashPassword(password)}
	if err := u.Table.Append(ctx, row); err != nil {
		return fmt.Errorf("append user row: %w", err)
	}
	return nil
}

// ValidateLogin reports whether the ID/password pair matches a stored row.
// A missing user and a wrong password are indistinguishable on purpose.
func (u UserModel) ValidateLogin(userID, password string) (bool, error) {
	ctx, cancel := Handlectx()
	defer cancel()

	_, rows, err := u.Table.ReadAll(ctx)
	if err != nil {
		return false, fmt.Errorf("read users sheet: %w", err)
	}

	hashed := HashPassword(password)
	for _, row := range rows {
		if Str(row["ID"]) == userID && Str(row["Password"]) == hashed {
			return true, nil
		}
	}
	return false, nil
}
