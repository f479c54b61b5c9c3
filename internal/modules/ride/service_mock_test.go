package ride_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"ridehub/internal/modules/authz"
	"ridehub/internal/modules/ride"
	"ridehub/internal/modules/ride/mocks"
	"ridehub/internal/types"
)

var (
	dispatcher = authz.Actor{ID: "disp_1", OrgID: "org_1", Roles: authz.NewRoleSet(authz.RoleDispatcher)}
	driver     = authz.Actor{ID: "drv_a", OrgID: "org_1", Roles: authz.NewRoleSet(authz.RoleDriver)}
)

func openRide() *ride.Ride {
	return &ride.Ride{ID: "ride_1", OrgID: "org_1", RiderCount: 1, Status: ride.StatusRequested}
}

func TestPublishFailureDoesNotChangeOutcome(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctrl)
	pub := mocks.NewMockPublisher(ctrl)
	core, logs := observer.New(zap.WarnLevel)

	svc := ride.NewService(ride.Deps{Gateway: gw, Publisher: pub, Logger: zap.New(core)})

	gw.EXPECT().GetRide(gomock.Any(), types.ID("ride_1")).Return(openRide(), nil)
	gw.EXPECT().GetRideRequest(gomock.Any(), types.ID("ride_1"), driver.ID).
		Return(&ride.RideRequest{RideID: "ride_1", DriverID: driver.ID}, nil)
	gw.EXPECT().UpdateRideIfStatus(gomock.Any(), types.ID("ride_1"), ride.StatusRequested, gomock.Any()).Return(true, nil)
	gw.EXPECT().ListPendingRequests(gomock.Any(), types.ID("ride_1")).Return(nil, nil)
	pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	res, err := svc.ResolveClaim(context.Background(), ride.ClaimCommand{RideID: "ride_1", Actor: driver})
	require.NoError(t, err)
	assert.Equal(t, ride.OutcomeAssigned, res.Outcome)
	assert.Equal(t, 1, logs.FilterMessage("publish event failed").Len())
}

func TestSweepFailureStillAssigns(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctrl)
	core, logs := observer.New(zap.ErrorLevel)

	svc := ride.NewService(ride.Deps{Gateway: gw, Logger: zap.New(core)})

	gw.EXPECT().GetRide(gomock.Any(), gomock.Any()).Return(openRide(), nil)
	gw.EXPECT().GetRideRequest(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&ride.RideRequest{RideID: "ride_1", DriverID: driver.ID}, nil)
	gw.EXPECT().UpdateRideIfStatus(gomock.Any(), gomock.Any(), ride.StatusRequested, gomock.Any()).Return(true, nil)
	gw.EXPECT().ListPendingRequests(gomock.Any(), gomock.Any()).
		Return([]*ride.RideRequest{{DriverID: driver.ID}, {DriverID: "drv_b"}}, nil)
	gw.EXPECT().MarkDenied(gomock.Any(), types.ID("ride_1"), []types.ID{"drv_b"}).Return(errors.New("connection reset"))

	res, err := svc.ResolveClaim(context.Background(), ride.ClaimCommand{RideID: "ride_1", Actor: driver})
	require.NoError(t, err)
	assert.Equal(t, ride.OutcomeAssigned, res.Outcome)
	assert.Equal(t, 1, logs.FilterMessage("deny competing requests failed").Len())
}

func TestLostCompareAndSetReportsAlreadyClaimed(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctrl)
	svc := ride.NewService(ride.Deps{Gateway: gw})

	taken := openRide()
	taken.Status = ride.StatusScheduled
	taken.DriverID = types.ID("drv_b").Ptr()

	gomock.InOrder(
		gw.EXPECT().GetRide(gomock.Any(), gomock.Any()).Return(openRide(), nil),
		gw.EXPECT().GetRideRequest(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&ride.RideRequest{RideID: "ride_1", DriverID: driver.ID}, nil),
		gw.EXPECT().UpdateRideIfStatus(gomock.Any(), gomock.Any(), ride.StatusRequested, gomock.Any()).Return(false, nil),
		gw.EXPECT().GetRide(gomock.Any(), gomock.Any()).Return(taken, nil),
	)

	res, err := svc.ResolveClaim(context.Background(), ride.ClaimCommand{RideID: "ride_1", Actor: driver})
	require.NoError(t, err)
	assert.Equal(t, ride.OutcomeAlreadyClaimed, res.Outcome)
}

func TestGatewayFaultPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctrl)
	svc := ride.NewService(ride.Deps{Gateway: gw})
	boom := errors.New("pool exhausted")

	gw.EXPECT().GetRide(gomock.Any(), gomock.Any()).Return(openRide(), nil)
	gw.EXPECT().GetRideRequest(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&ride.RideRequest{RideID: "ride_1", DriverID: driver.ID}, nil)
	gw.EXPECT().UpdateRideIfStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, boom)

	res, err := svc.ResolveClaim(context.Background(), ride.ClaimCommand{RideID: "ride_1", Actor: driver})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, ride.Result{}, res)
}

func TestVehicleLookupFaultPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctrl)
	vehicles := mocks.NewMockVehicleSource(ctrl)
	svc := ride.NewService(ride.Deps{Gateway: gw, Vehicles: vehicles})
	boom := errors.New("timeout")

	gw.EXPECT().GetRide(gomock.Any(), gomock.Any()).Return(openRide(), nil)
	gw.EXPECT().GetRideRequest(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&ride.RideRequest{RideID: "ride_1", DriverID: driver.ID}, nil)
	vehicles.EXPECT().Get(gomock.Any(), types.ID("car_a")).Return(nil, boom)

	_, err := svc.ResolveClaim(context.Background(), ride.ClaimCommand{RideID: "ride_1", Actor: driver, VehicleID: types.ID("car_a").Ptr()})
	require.ErrorIs(t, err, boom)
}

func TestCreateRideStoresEstimatedMiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctrl)
	dist := mocks.NewMockDistanceEstimator(ctrl)
	svc := ride.NewService(ride.Deps{Gateway: gw, Distance: dist})

	dist.EXPECT().EstimateMiles(gomock.Any(), "12 Elm St", "400 Clinic Rd").Return(7.5, nil)
	var stored *ride.Ride
	gw.EXPECT().CreateRide(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r *ride.Ride) error {
		stored = r
		return nil
	})

	res, err := svc.CreateRide(context.Background(), ride.CreateCommand{
		Actor:      dispatcher,
		ClientID:   "client_1",
		Pickup:     ride.Place{Address: "12 Elm St"},
		Dropoff:    ride.Place{Address: "400 Clinic Rd"},
		RiderCount: 2,
	})
	require.NoError(t, err)
	require.Equal(t, ride.OutcomeOK, res.Outcome)
	require.NotNil(t, stored)
	require.NotNil(t, stored.EstimatedMiles)
	assert.Equal(t, 7.5, *stored.EstimatedMiles)
}

func TestCreateRideToleratesEstimatorFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctrl)
	dist := mocks.NewMockDistanceEstimator(ctrl)
	svc := ride.NewService(ride.Deps{Gateway: gw, Distance: dist})

	dist.EXPECT().EstimateMiles(gomock.Any(), gomock.Any(), gomock.Any()).Return(0.0, errors.New("quota"))
	gw.EXPECT().CreateRide(gomock.Any(), gomock.Any()).Return(nil)

	res, err := svc.CreateRide(context.Background(), ride.CreateCommand{
		Actor:      dispatcher,
		ClientID:   "client_1",
		Pickup:     ride.Place{Address: "a"},
		Dropoff:    ride.Place{Address: "b"},
		RiderCount: 1,
	})
	require.NoError(t, err)
	require.Equal(t, ride.OutcomeOK, res.Outcome)
	assert.Nil(t, res.Ride.EstimatedMiles)
}

func TestCustomAuthorizerIsConsulted(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctrl)
	az := mocks.NewMockAuthorizer(ctrl)
	svc := ride.NewService(ride.Deps{Gateway: gw, Authorizer: az})

	gw.EXPECT().GetRide(gomock.Any(), gomock.Any()).Return(openRide(), nil)
	az.EXPECT().CanActOnRide(gomock.Any(), dispatcher, gomock.Any()).Return(false)

	res, err := svc.Cancel(context.Background(), ride.TransitionCommand{RideID: "ride_1", Actor: dispatcher})
	require.NoError(t, err)
	assert.Equal(t, ride.OutcomeForbidden, res.Outcome)
}

func TestConfirmLosingCompareAndSetReportsWrongState(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctrl)
	svc := ride.NewService(ride.Deps{Gateway: gw})

	reported := openRide()
	reported.Status = ride.StatusReported
	reported.DriverID = driver.ID.Ptr()
	done := *reported
	done.Status = ride.StatusCompleted

	gomock.InOrder(
		gw.EXPECT().GetRide(gomock.Any(), gomock.Any()).Return(reported, nil),
		gw.EXPECT().GetCompletionRecord(gomock.Any(), types.ID("ride_1")).
			Return(&ride.CompletionRecord{RideID: "ride_1", ReportedBy: driver.ID, MilesDriven: 3}, nil),
		gw.EXPECT().UpdateRideWithRecord(gomock.Any(), types.ID("ride_1"), ride.StatusReported, gomock.Any(), gomock.Any()).
			Return(false, nil),
		gw.EXPECT().GetRide(gomock.Any(), gomock.Any()).Return(&done, nil),
	)

	res, err := svc.ConfirmCompletion(context.Background(), ride.ConfirmCommand{RideID: "ride_1", Actor: dispatcher})
	require.NoError(t, err)
	assert.Equal(t, ride.OutcomeWrongState, res.Outcome)
}

func TestDriverDirectoryFaultPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctrl)
	drivers := mocks.NewMockDriverDirectory(ctrl)
	svc := ride.NewService(ride.Deps{Gateway: gw, Drivers: drivers})
	boom := errors.New("identity provider unavailable")

	gw.EXPECT().GetRide(gomock.Any(), gomock.Any()).Return(openRide(), nil)
	drivers.EXPECT().IsDriverIn(gomock.Any(), types.ID("org_1"), types.ID("drv_b")).Return(false, boom)

	_, err := svc.ForceAssign(context.Background(), ride.ForceAssignCommand{RideID: "ride_1", Actor: dispatcher, DriverID: "drv_b"})
	require.ErrorIs(t, err, boom)
}
