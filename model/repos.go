package model

import (
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/cache"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/database"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/mongodatabase"
)

// Repos container to hold handles for cache / db repos
type Repos struct {
	MasterDB *database.Database
	Cache    *cache.Cache
	MongoDB  *mongodatabase.DBConfig
}
