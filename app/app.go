package app

import (
	"github.com/sirupsen/logrus"

	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/app/config"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/app/identity"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/app/message"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/cache"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/database"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/model"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/mongodatabase"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/realtime"
)

// App our application
type App struct {
	Config          *config.Config
	Repos           *model.Repos
	Hub             *realtime.Hub
	MessageService  message.Service
	IdentityService identity.Service
}

// NewContext create new request context
func (a *App) NewContext() *Context {
	return &Context{
		Logger: logrus.StandardLogger(),
	}
}

// New create a new app
func New() (app *App, err error) {
	appConf, err := config.InitConfig()
	if err != nil {
		return nil, err
	}

	dbConf, err := database.InitConfig()
	if err != nil {
		return nil, err
	}

	cacheConf, err := cache.InitConfig()
	if err != nil {
		return nil, err
	}

	masterDB, err := database.New(dbConf.Master)
	if err != nil {
		return nil, err
	}

	mongoDBConf, err := mongodatabase.InitConfig()
	if err != nil {
		return nil, err
	}

	repos := &model.Repos{
		MasterDB: masterDB,
		Cache:    cache.New(cacheConf),
		MongoDB:  mongoDBConf,
	}

	hub := realtime.NewHub(repos.Cache)
	identityService := identity.NewService(masterDB)
	messageService := message.NewService(
		message.NewMongoStore(mongoDBConf),
		identityService,
		hub,
		message.NewProjectionCache(repos.Cache),
	)

	return &App{
		Config:          appConf,
		Repos:           repos,
		Hub:             hub,
		MessageService:  messageService,
		IdentityService: identityService,
	}, nil
}

// Close closes application handles and connections
func (a *App) Close() {
	logrus.Info("Closing connection to database")

	err := a.Repos.MasterDB.Close()
	if err != nil {
		logrus.Error("unable to close connection to master database", err)
	}
	err = a.Repos.Cache.Close()
	if err != nil {
		logrus.Error("unable to close connection to cache", err)
	}
}

// ValidationError error when inputs are invalid
type ValidationError struct {
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UserError when user is disallowed from resource
type UserError struct {
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

func (e *UserError) Error() string {
	return e.Message
}
