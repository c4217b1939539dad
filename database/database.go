// Package database - Handles all interaction with ArangoDB
package database

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/arangodb/go-driver/v2/connection"
	"github.com/cenkalti/backoff"
	"github.com/ortelius/obsolescence-backend/config"
	"go.uber.org/zap"
)

// Collection names
const (
	ProjectCollection      = "project"
	ApplicationCollection  = "application"
	VersionCollection      = "version"
	DependencyCollection   = "dependency"
	NotificationCollection = "notification"
	MetadataCollection     = "metadata"
	TimelineCollection     = "timeline"
	ActionPlanCollection   = "action_plan"
)

// DBConnection is the structure that defined the database engine and collections
type DBConnection struct {
	Collections map[string]arangodb.Collection
	Database    arangodb.Database
}

// Define a struct to hold the index definition
type indexConfig struct {
	Collection string
	IdxName    string
	IdxFields  []string
	Unique     bool
	Sparse     bool
}

func dbConnectionConfig(endpoint connection.Endpoint, dbuser string, dbpass string) connection.HttpConfiguration {
	return connection.HttpConfiguration{
		Authentication: connection.NewBasicAuth(dbuser, dbpass),
		Endpoint:       endpoint,
		ContentType:    connection.ApplicationJSON,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, // #nosec G402
			},
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 90 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// InitializeDatabase is the function for connecting to the db engine, creating the database and collections
func InitializeDatabase(cfg config.DatabaseConfig, logger *zap.Logger) DBConnection {
	const initialInterval = 10 * time.Second
	const maxInterval = 2 * time.Minute

	var db arangodb.Database
	var client arangodb.Client

	ctx := context.Background()
	dburl := cfg.Endpoint()

	//
	// Database connection with backoff retry
	//

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialInterval
	bo.MaxInterval = maxInterval
	bo.MaxElapsedTime = 0 // Set to 0 for indefinite retries

	err := backoff.RetryNotify(func() error {
		logger.Info("Attempting to connect to ArangoDB", zap.String("url", dburl))
		endpoint := connection.NewRoundRobinEndpoints([]string{dburl})
		conn := connection.NewHttpConnection(dbConnectionConfig(endpoint, cfg.User, cfg.Pass))

		client = arangodb.NewClient(conn)

		versionInfo, err := client.Version(ctx)
		if err != nil {
			return err
		}

		logger.Sugar().Infof("Database has version '%s' and license '%s'", versionInfo.Version, versionInfo.License)
		return nil

	}, bo, func(err error, wait time.Duration) {
		logger.Warn("Retrying connection to ArangoDB", zap.Error(err), zap.Duration("wait", wait))
	})

	if err != nil {
		logger.Sugar().Fatalf("Backoff Error %v", err)
	}

	//
	// Database creation
	//

	exists := false
	dblist, _ := client.Databases(ctx)

	for _, dbinfo := range dblist {
		if dbinfo.Name() == cfg.Name {
			exists = true
			break
		}
	}

	if exists {
		var options arangodb.GetDatabaseOptions
		if db, err = client.GetDatabase(ctx, cfg.Name, &options); err != nil {
			logger.Sugar().Fatalf("Failed to get Database: %v", err)
		}
	} else {
		if db, err = client.CreateDatabase(ctx, cfg.Name, nil); err != nil {
			logger.Sugar().Fatalf("Failed to create Database: %v", err)
		}
	}

	//
	// Collection creation for document storage
	//

	collections := make(map[string]arangodb.Collection)
	collectionNames := []string{
		ProjectCollection,
		ApplicationCollection,
		VersionCollection,
		DependencyCollection,
		NotificationCollection,
		MetadataCollection,
		TimelineCollection,
		ActionPlanCollection,
	}

	for _, collectionName := range collectionNames {
		var col arangodb.Collection

		exists, _ = db.CollectionExists(ctx, collectionName)
		if exists {
			var options arangodb.GetCollectionOptions
			if col, err = db.GetCollection(ctx, collectionName, &options); err != nil {
				logger.Sugar().Fatalf("Failed to use collection: %v", err)
			}
		} else {
			if col, err = db.CreateCollectionV2(ctx, collectionName, nil); err != nil {
				logger.Sugar().Fatalf("Failed to create collection: %v", err)
			}
		}

		collections[collectionName] = col
	}

	//
	// Index creation
	//

	idxList := []indexConfig{
		{Collection: ProjectCollection, IdxName: "project_name_unique", IdxFields: []string{"name"}, Unique: true},

		{Collection: ApplicationCollection, IdxName: "application_project", IdxFields: []string{"project_key"}},
		{Collection: ApplicationCollection, IdxName: "application_name", IdxFields: []string{"name"}},

		// Expiry lookups drive both the dashboard and the daily job
		{Collection: VersionCollection, IdxName: "version_application", IdxFields: []string{"application_key"}},
		{Collection: VersionCollection, IdxName: "version_end_of_support", IdxFields: []string{"end_of_support"}, Sparse: true},
		{Collection: VersionCollection, IdxName: "version_sort", IdxFields: []string{"application_key", "version_major", "version_minor", "version_patch"}, Sparse: true},

		{Collection: DependencyCollection, IdxName: "dependency_application", IdxFields: []string{"application_key"}},
		{Collection: DependencyCollection, IdxName: "dependency_end_of_support", IdxFields: []string{"end_of_support"}, Sparse: true},
		{Collection: DependencyCollection, IdxName: "dependency_name_eos", IdxFields: []string{"name", "end_of_support"}},
		{Collection: DependencyCollection, IdxName: "dependency_normalized_name", IdxFields: []string{"normalized_name"}, Sparse: true},

		{Collection: NotificationCollection, IdxName: "notification_sent_at", IdxFields: []string{"sent_at"}},
		{Collection: NotificationCollection, IdxName: "notification_target", IdxFields: []string{"target_type", "target_id"}},

		{Collection: TimelineCollection, IdxName: "timeline_application", IdxFields: []string{"application_key", "created_at"}},
		{Collection: ActionPlanCollection, IdxName: "action_plan_application", IdxFields: []string{"application_key", "due_date"}},
	}

	for _, idx := range idxList {
		ensureIndex(ctx, collections[idx.Collection], idx, logger)
	}

	return DBConnection{
		Database:    db,
		Collections: collections,
	}
}

func ensureIndex(ctx context.Context, col arangodb.Collection, idx indexConfig, logger *zap.Logger) {
	if indexes, err := col.Indexes(ctx); err == nil {
		for _, index := range indexes {
			if idx.IdxName == index.Name {
				return
			}
		}
	}

	unique := idx.Unique
	sparse := idx.Sparse
	indexOptions := arangodb.CreatePersistentIndexOptions{
		Unique: &unique,
		Sparse: &sparse,
		Name:   idx.IdxName,
	}

	if _, _, err := col.EnsurePersistentIndex(ctx, idx.IdxFields, &indexOptions); err != nil {
		logger.Sugar().Fatalln("Error creating index:", err)
	} else {
		logger.Sugar().Infof("Created index: %s on %s.%v", idx.IdxName, idx.Collection, idx.IdxFields)
	}
}
