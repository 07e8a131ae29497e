package services

import (
	"context"
	"testing"

	"shuttlebook/internal/models"
	"shuttlebook/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRegisterIssuesValidToken(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	user, token, err := env.userSvc.Register(ctx, &models.User{
		Name:  "Asha",
		Phone: "+919800000001",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID.IsZero() {
		t.Fatal("expected user id to be assigned")
	}
	if user.Role != models.UserRolePassenger {
		t.Fatalf("role = %q, want passenger", user.Role)
	}

	claims, err := utils.ValidateToken(token, "test-jwt-secret")
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("token user = %s, want %s", claims.UserID.Hex(), user.ID.Hex())
	}
	if claims.Role != string(models.UserRolePassenger) {
		t.Fatalf("token role = %q, want passenger", claims.Role)
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	if _, _, err := env.userSvc.Register(ctx, &models.User{Name: "Asha", Phone: "+919800000001"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, err := env.userSvc.Register(ctx, &models.User{Name: "Binu", Phone: "+919800000001"})
	if KindOf(err) != KindConflict {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, _, err := env.userSvc.Register(ctx, &models.User{Phone: "+919800000001"})
	if KindOf(err) != KindInvalidInput {
		t.Fatalf("err = %v, want invalid input", err)
	}
}

func TestIssueToken(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	registered, _, err := env.userSvc.Register(ctx, &models.User{Name: "Asha", Phone: "+919800000001"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, token, err := env.userSvc.IssueToken(ctx, "+919800000001")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("user = %s, want %s", user.ID.Hex(), registered.ID.Hex())
	}

	claims, err := utils.ValidateToken(token, "test-jwt-secret")
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != registered.ID {
		t.Fatalf("token user = %s, want %s", claims.UserID.Hex(), registered.ID.Hex())
	}
}

func TestIssueTokenUnknownPhone(t *testing.T) {
	env := newTestEnv()

	_, _, err := env.userSvc.IssueToken(context.Background(), "+919999999999")
	if KindOf(err) != KindNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestGetUser(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	registered, _, err := env.userSvc.Register(ctx, &models.User{Name: "Asha", Phone: "+919800000001"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, err := env.userSvc.GetUser(ctx, registered.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if user.Name != "Asha" {
		t.Fatalf("name = %q, want Asha", user.Name)
	}

	if _, err := env.userSvc.GetUser(ctx, primitive.NewObjectID()); KindOf(err) != KindNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}
