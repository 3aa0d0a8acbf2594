// Package mongo connects the MongoDB client used when the workflow audit log
// is stored in MongoDB (AUDIT_BACKEND=mongo).
//
//	db, err := mongo.NewWithDatabase(ctx, cfg.Mongo, "")
//	if err != nil {
//		return err
//	}
//	storage := audit.NewMongoStorage(db, "")
package mongo
