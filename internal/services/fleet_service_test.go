package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"shuttlebook/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// seatRow builds a plain layout S1..Sn.
func seatRow(n int) []models.SeatSpec {
	seats := make([]models.SeatSpec, n)
	for i := range seats {
		seats[i] = models.SeatSpec{Label: fmt.Sprintf("S%d", i+1)}
	}
	return seats
}

func TestCreateVehicleLayoutValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	tests := []struct {
		name    string
		vehicle *models.Vehicle
	}{
		{"missing fields", &models.Vehicle{Capacity: 4}},
		{"zero capacity", &models.Vehicle{Name: "V", RegistrationNumber: "KA01"}},
		{"missing layout", &models.Vehicle{Name: "V", RegistrationNumber: "KA00", Capacity: 4}},
		{"layout smaller than capacity", &models.Vehicle{
			Name: "V", RegistrationNumber: "KA02", Capacity: 3,
			Seats: []models.SeatSpec{{Label: "S1"}, {Label: "S2"}},
		}},
		{"duplicate seat labels", &models.Vehicle{
			Name: "V", RegistrationNumber: "KA03", Capacity: 2,
			Seats: []models.SeatSpec{{Label: "S1"}, {Label: "S1"}},
		}},
		{"empty seat label", &models.Vehicle{
			Name: "V", RegistrationNumber: "KA04", Capacity: 2,
			Seats: []models.SeatSpec{{Label: "S1"}, {Label: ""}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.fleetSvc.CreateVehicle(ctx, tt.vehicle); KindOf(err) != KindInvalidInput {
				t.Errorf("kind = %s, want invalid_input", KindOf(err))
			}
		})
	}
}

func TestCreateVehicleDuplicateRegistration(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	first := &models.Vehicle{Name: "V1", RegistrationNumber: "KA01AB1234", Capacity: 4, Seats: seatRow(4)}
	if _, err := env.fleetSvc.CreateVehicle(ctx, first); err != nil {
		t.Fatal(err)
	}
	if first.Status != models.VehicleStatusActive {
		t.Errorf("default status = %s, want active", first.Status)
	}

	second := &models.Vehicle{Name: "V2", RegistrationNumber: "KA01AB1234", Capacity: 4, Seats: seatRow(4)}
	if _, err := env.fleetSvc.CreateVehicle(ctx, second); KindOf(err) != KindConflict {
		t.Fatalf("duplicate registration: kind = %s, want conflict", KindOf(err))
	}
}

func TestUpdateVehicleStatus(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	vehicle := &models.Vehicle{Name: "V1", RegistrationNumber: "KA05XY0001", Capacity: 4, Seats: seatRow(4)}
	if _, err := env.fleetSvc.CreateVehicle(ctx, vehicle); err != nil {
		t.Fatal(err)
	}

	updated, err := env.fleetSvc.UpdateVehicleStatus(ctx, vehicle.ID, models.VehicleStatusMaintenance)
	if err != nil {
		t.Fatalf("UpdateVehicleStatus: %v", err)
	}
	if updated.Status != models.VehicleStatusMaintenance {
		t.Errorf("status = %s, want maintenance", updated.Status)
	}

	if _, err := env.fleetSvc.UpdateVehicleStatus(ctx, vehicle.ID, "flying"); KindOf(err) != KindInvalidInput {
		t.Errorf("unknown status accepted")
	}
}

func TestCreateDriver(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	if _, err := env.fleetSvc.CreateDriver(ctx, &models.Driver{Name: "A"}); KindOf(err) != KindInvalidInput {
		t.Error("incomplete driver accepted")
	}

	driver := &models.Driver{Name: "A", Phone: "+911234567890", LicenseNumber: "DL-1"}
	created, err := env.fleetSvc.CreateDriver(ctx, driver)
	if err != nil {
		t.Fatal(err)
	}
	if created.Status != models.DriverStatusActive {
		t.Errorf("default status = %s, want active", created.Status)
	}

	dup := &models.Driver{Name: "B", Phone: "+911234567890", LicenseNumber: "DL-2"}
	if _, err := env.fleetSvc.CreateDriver(ctx, dup); KindOf(err) != KindConflict {
		t.Fatalf("duplicate phone: kind = %s, want conflict", KindOf(err))
	}

	if _, err := env.fleetSvc.GetDriver(ctx, created.ID); err != nil {
		t.Fatalf("GetDriver: %v", err)
	}
	_, err = env.fleetSvc.GetDriver(ctx, primitive.NewObjectID())
	if !errors.Is(err, ErrDriverNotFound) {
		t.Fatalf("err = %v, want ErrDriverNotFound", err)
	}
}
