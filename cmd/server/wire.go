// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"linkfolio_backend/internal/app"
	"linkfolio_backend/internal/config"
	"linkfolio_backend/internal/firebase"
	"linkfolio_backend/internal/item"
	"linkfolio_backend/internal/jobs"
	"linkfolio_backend/internal/platform/database"
	"linkfolio_backend/internal/platform/logger"
	"linkfolio_backend/internal/profile"
	"linkfolio_backend/internal/session"
	"linkfolio_backend/internal/shared"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewGORM,
		provideCleanup,

		firebase.NewFirebaseService,
		wire.Bind(new(session.Verifier), new(*firebase.FirebaseService)),

		// Profile Module
		profile.NewGORMRepository,
		profile.NewService,
		wire.Bind(new(shared.ProfileService), new(*profile.ServiceImplementation)),
		wire.Bind(new(profile.Service), new(*profile.ServiceImplementation)),
		profile.NewLinkEditor,
		profile.NewHandler,

		// Item Module
		item.NewGORMRepository,
		item.NewService,
		wire.Bind(new(item.Service), new(*item.ServiceImplementation)),
		wire.Bind(new(profile.ItemLister), new(*item.ServiceImplementation)),
		item.NewHandler,

		// Auth Session
		session.NewHandler,

		// Jobs
		jobs.NewPositionCompactionJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
