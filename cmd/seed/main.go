// Command seed provisions a staff and a customer user plus a small demo
// catalog, then prints access tokens for both users.  Running it again
// reuses the existing users and leaves a non-empty catalog alone.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/theatre-booking/internal/config"
	"github.com/iliyamo/theatre-booking/internal/database"
	"github.com/iliyamo/theatre-booking/internal/logger"
	"github.com/iliyamo/theatre-booking/internal/model"
	"github.com/iliyamo/theatre-booking/internal/repository"
	"github.com/iliyamo/theatre-booking/internal/utils"
)

const tokenTTL = 30 * 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	dsn := database.SQLiteDSN(cfg.DBPath)
	if cfg.DBDriver == database.DriverMySQL {
		dsn = database.MySQLDSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	}
	db, err := database.Open(cfg.DBDriver, dsn)
	if err != nil {
		log.WithError(err).Fatal("open database")
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		log.WithError(err).Fatal("migrate")
	}

	users := repository.NewUserRepo(db)
	staff := model.User{Email: "staff@theatre.local", Username: "staff", IsStaff: true}
	customer := model.User{Email: "customer@theatre.local", Username: "customer"}
	for _, u := range []*model.User{&staff, &customer} {
		if err := users.Ensure(ctx, u); err != nil {
			log.WithError(err).WithField("email", u.Email).Fatal("ensure user")
		}
	}

	if err := seedCatalog(ctx, db, log); err != nil {
		log.WithError(err).Fatal("seed catalog")
	}

	for _, it := range []struct {
		user model.User
		role string
	}{{staff, utils.RoleStaff}, {customer, utils.RoleCustomer}} {
		tok, err := utils.NewAccessToken(cfg.JWTSecret, it.user.ID, it.role, tokenTTL)
		if err != nil {
			log.WithError(err).Fatal("sign token")
		}
		fmt.Printf("%s (%s, id=%d):\n  %s\n", it.user.Email, it.role, it.user.ID, tok)
	}
}

func seedCatalog(ctx context.Context, db *sqlx.DB, log logrus.FieldLogger) error {
	plays := repository.NewPlayRepo(db)
	existing, err := plays.List(ctx, "")
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.WithField("plays", len(existing)).Info("catalog already seeded")
		return nil
	}

	genres := repository.NewGenreRepo(db)
	tragedy := model.Genre{Name: "Tragedy"}
	comedy := model.Genre{Name: "Comedy"}
	for _, g := range []*model.Genre{&tragedy, &comedy} {
		if err := genres.Create(ctx, g); err != nil {
			return err
		}
	}

	actors := repository.NewActorRepo(db)
	ian := model.Actor{FirstName: "Ian", LastName: "McKellen"}
	judi := model.Actor{FirstName: "Judi", LastName: "Dench"}
	for _, a := range []*model.Actor{&ian, &judi} {
		if err := actors.Create(ctx, a); err != nil {
			return err
		}
	}

	hamlet := model.Play{Title: "Hamlet", Description: "The Prince of Denmark seeks revenge."}
	if err := plays.Create(ctx, &hamlet, []uint64{ian.ID, judi.ID}, []uint64{tragedy.ID}); err != nil {
		return err
	}
	dream := model.Play{Title: "A Midsummer Night's Dream", Description: "Lovers lost in an enchanted forest."}
	if err := plays.Create(ctx, &dream, []uint64{judi.ID}, []uint64{comedy.ID}); err != nil {
		return err
	}

	halls := repository.NewHallRepo(db)
	mainStage := model.TheatreHall{Name: "Main Stage", Rows: 10, SeatsInRow: 20}
	studio := model.TheatreHall{Name: "Studio", Rows: 5, SeatsInRow: 10}
	for _, h := range []*model.TheatreHall{&mainStage, &studio} {
		if err := halls.Create(ctx, h); err != nil {
			return err
		}
	}

	performances := repository.NewPerformanceRepo(db)
	start := time.Now().UTC().Truncate(time.Hour).Add(72 * time.Hour)
	for i, p := range []model.Performance{
		{PlayID: hamlet.ID, TheatreHallID: mainStage.ID, ShowTime: start},
		{PlayID: hamlet.ID, TheatreHallID: mainStage.ID, ShowTime: start.Add(24 * time.Hour)},
		{PlayID: dream.ID, TheatreHallID: studio.ID, ShowTime: start.Add(3 * time.Hour)},
	} {
		if err := performances.Create(ctx, &p); err != nil {
			return fmt.Errorf("performance %d: %w", i, err)
		}
	}
	log.Info("demo catalog created")
	return nil
}
