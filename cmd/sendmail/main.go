// sendmail 出站邮件投递工具
//
// 独立于HTTP服务运行：按ID读取一封已存储的邮件，通过配置的SMTP中继投递。
// 也可以用命令行参数直接指定收发双方和内容，跳过数据库。
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"postmail/internal/config"
	"postmail/internal/database"
	"postmail/internal/models"
	"postmail/internal/services"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	emailID := flag.Uint("email-id", 0, "id of a stored email to deliver")
	from := flag.String("from", "", "sender address (overrides -email-id)")
	to := flag.String("to", "", "recipient address")
	subject := flag.String("subject", "", "message subject")
	body := flag.String("body", "", "message body")
	timeout := flag.Duration("timeout", 60*time.Second, "delivery timeout")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Warn("No .env file found, using system environment variables")
		}
	}

	cfg := config.Load()

	var email *models.Email

	switch {
	case *from != "" && *to != "":
		email = &models.Email{
			SenderEmail:    *from,
			RecipientEmail: *to,
			Subject:        *subject,
			Body:           *body,
		}
	case *emailID != 0:
		db, err := database.Initialize(cfg.Database.Path, cfg.Database.MigrationsPath)
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize database")
		}
		defer database.Close(db)

		var stored models.Email
		if err := db.First(&stored, *emailID).Error; err != nil {
			log.WithError(err).WithField("email_id", *emailID).Fatal("Failed to load email")
		}
		email = &stored
	default:
		log.Error("Either -email-id or both -from and -to are required")
		flag.Usage()
		os.Exit(2)
	}

	sender := services.NewSMTPSender(cfg.SMTP)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	log.WithFields(logrus.Fields{
		"from":    email.SenderEmail,
		"to":      email.RecipientEmail,
		"subject": email.Subject,
		"relay":   cfg.SMTP.Host,
	}).Info("Delivering email")

	if err := sender.Send(ctx, email); err != nil {
		log.WithError(err).Fatal("Delivery failed")
	}

	log.Info("Email delivered")
}
