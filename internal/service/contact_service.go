package service

import (
	"errors"
	"fmt"

	"go-storefront-api/internal/mailer"
)

var ErrMissingContactFields = errors.New("all contact fields are required")

type ContactService interface {
	SendMessage(nombre, email, mensaje string) error
}

type contactService struct {
	mailer mailer.Mailer
}

func NewContactService(m mailer.Mailer) ContactService {
	return &contactService{mailer: m}
}

func (s *contactService) SendMessage(nombre, email, mensaje string) error {
	if nombre == "" || email == "" || mensaje == "" {
		return ErrMissingContactFields
	}

	body := fmt.Sprintf("Nombre: %s\nEmail: %s\nMensaje: %s", nombre, email, mensaje)
	return s.mailer.Send("Nuevo mensaje de contacto", body)
}
