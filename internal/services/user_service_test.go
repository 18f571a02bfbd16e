package services

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"dukanBack/internal/models"
	"dukanBack/internal/repositories"
)

func TestSignUpDuplicates(t *testing.T) {
	t.Run("duplicate email", func(t *testing.T) {
		db, fdb := newFakeDB(t)
		fdb.stubQuery("WHERE email", []string{"exists"}, [][]driver.Value{{true}})

		svc := &UserService{UserRepo: &repositories.UserRepository{DB: db}}
		_, err := svc.SignUp(context.Background(), models.User{Email: "owner@shop.in", Password: "secret"})
		if !errors.Is(err, models.ErrDuplicateEmail) {
			t.Fatalf("err = %v, want ErrDuplicateEmail", err)
		}
	})

	t.Run("duplicate phone", func(t *testing.T) {
		db, fdb := newFakeDB(t)
		fdb.stubQuery("WHERE email", []string{"exists"}, [][]driver.Value{{false}})
		fdb.stubQuery("WHERE phone", []string{"exists"}, [][]driver.Value{{true}})

		svc := &UserService{UserRepo: &repositories.UserRepository{DB: db}}
		_, err := svc.SignUp(context.Background(), models.User{Email: "owner@shop.in", Phone: "+911234567890", Password: "secret"})
		if !errors.Is(err, models.ErrDuplicatePhone) {
			t.Fatalf("err = %v, want ErrDuplicatePhone", err)
		}
		if got := fdb.count("INSERT INTO users"); got != 0 {
			t.Errorf("user inserted %d times despite duplicate phone, want 0", got)
		}
	})
}
