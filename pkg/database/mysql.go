package database

import (
	"fmt"
	"log"
	"suraksha_backend/internal/config"
	"suraksha_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if migrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")

		if err := SeedDefaults(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.DisasterModule{},
		&model.ModulePhase{},
		&model.PhaseChecklist{},
		&model.PhaseStep{},
		&model.PhaseQA{},
		&model.QuizQuestion{},
		&model.DrillScenario{},
		&model.DrillChoice{},
		&model.StudentProgress{},
		&model.QuizAttempt{},
		&model.EmergencyAlert{},
		&model.WeatherAlertRecord{},
		&model.SOSRequest{},
		&model.EmergencyContact{},
	)
}
