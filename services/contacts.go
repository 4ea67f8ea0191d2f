package services

import (
	"github.com/sirupsen/logrus"

	"churchcms/access"
	"churchcms/models"
	"churchcms/store"
)

const ContactsCollection = "contacts"

type ContactService struct {
	*Resource[models.Contact, *models.Contact]
}

func NewContactService(s store.Store, log *logrus.Logger) *ContactService {
	return &ContactService{NewResource[models.Contact](s, ResourceConfig[models.Contact]{
		Name:       "Contact",
		Collection: ContactsCollection,
		Ops: Ops{
			List:   access.ContactList,
			Get:    access.ContactGet,
			Update: access.ContactUpdate,
			Delete: access.ContactDelete,
		},
		Sort: []store.SortField{{Field: "createdAt", Desc: true}},
	}, log)}
}
