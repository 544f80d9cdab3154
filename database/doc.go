// Package database opens GORM connections for the toolbox repositories.
//
// The dialector comes from Config.Driver ("sqlite" or "postgres"). Opening
// retries with a linear backoff, applies pool limits and installs a GORM
// logger that writes through package logger. Errors coming out of GORM are
// translated to *errors.AppError by FromDatabase.
//
//	db, err := database.New(ctx, database.Config{Driver: "postgres", DSN: dsn}, log)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
// Component wraps the same connection in the component lifecycle. Query
// compilation lives in the query subpackage and entity metadata in schema.
package database
