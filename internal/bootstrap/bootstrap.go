package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"cloud.google.com/go/firestore"
	gcpkms "cloud.google.com/go/kms/apiv1"
	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/savings-backend/internal/config"
	"github.com/GregMSThompson/savings-backend/pkg/logger"
)

type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Firebase  *auth.Client
	KMS       *gcpkms.KeyManagementClient
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)

	if cfg.Store == config.StoreFirestore {
		bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
		if err != nil {
			return bs, err
		}
	} else {
		bs.Log.Warn("using in-memory store, data is lost on restart")
	}

	bs.Firebase, err = InitFirebase(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}

	if cfg.KMSKeyName == "" {
		bs.Log.Warn("KMSKEYNAME not set, loan signatures are stored unencrypted")
	} else {
		bs.KMS, err = InitKMS(applicationCtx)
		if err != nil {
			return bs, err
		}
	}

	return bs, nil
}

// Close releases every client opened by Run.
func (bs *Bootstrap) Close() error {
	var errs []error
	if bs.Firestore != nil {
		errs = append(errs, bs.Firestore.Close())
	}
	if bs.KMS != nil {
		errs = append(errs, bs.KMS.Close())
	}
	return errors.Join(errs...)
}
