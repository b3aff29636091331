package orderrepo

import (
	"time"

	"orderflow/internal/core/domain/model/order"
)

const (
	// CollectionName is the collection holding order documents keyed by order id.
	CollectionName = "orders"

	// legacyAssignedName is the status name written by the first importer generation.
	legacyAssignedName = "Assign"
)

// OrderDocument is the stored shape of an order.
type OrderDocument struct {
	ID            string    `bson:"_id"`
	OrderType     int       `bson:"orderType"`
	Status        string    `bson:"status"`
	PaymentStatus string    `bson:"paymentStatus"`
	CreatedAt     time.Time `bson:"createdAt"`

	CustomerID string `bson:"customerId,omitempty"`
	Source     string `bson:"source,omitempty"`
	Coupon     string `bson:"coupon"`
	Link       string `bson:"link"`

	Team   *AssignmentDocument `bson:"team,omitempty"`
	Member *AssignmentDocument `bson:"member,omitempty"`
	Profit *ProfitDocument     `bson:"profit,omitempty"`

	// ClaimToken identifies the last bulk change that touched the document.
	ClaimToken string `bson:"claimToken,omitempty"`
}

type AssignmentDocument struct {
	ID          string     `bson:"id"`
	Name        string     `bson:"name"`
	AllocatedAt time.Time  `bson:"allocateDate"`
	CompletedAt *time.Time `bson:"completionDate,omitempty"`
}

type ProfitDocument struct {
	Commission        int64 `bson:"commission"`
	ProfitBehindOrder int64 `bson:"profitBehindOrder"`
	MembersProfit     int64 `bson:"membersProfit"`
}

func fromDomain(o *order.Order) OrderDocument {
	details := o.Details()
	doc := OrderDocument{
		ID:            o.ID(),
		OrderType:     o.Type(),
		Status:        o.Status().String(),
		PaymentStatus: o.PaymentStatus().String(),
		CreatedAt:     o.CreatedAt().UTC(),
		CustomerID:    details.CustomerID,
		Source:        details.Source,
		Coupon:        details.Coupon,
		Link:          details.Link,
		Team:          assignmentFromDomain(o.Team()),
		Member:        assignmentFromDomain(o.Member()),
	}
	if p := o.Profit(); p != nil {
		doc.Profit = &ProfitDocument{
			Commission:        p.Commission(),
			ProfitBehindOrder: p.ProfitBehindOrder(),
			MembersProfit:     p.MembersProfit(),
		}
	}
	return doc
}

func assignmentFromDomain(a *order.Assignment) *AssignmentDocument {
	if a == nil {
		return nil
	}
	doc := &AssignmentDocument{ID: a.ID(), Name: a.Name(), AllocatedAt: a.AllocatedAt().UTC()}
	if at := a.CompletedAt(); at != nil {
		utc := at.UTC()
		doc.CompletedAt = &utc
	}
	return doc
}

func toDomain(doc OrderDocument) (*order.Order, error) {
	status, err := order.ParseStatus(doc.Status)
	if err != nil {
		return nil, err
	}

	team, err := assignmentToDomain(doc.Team)
	if err != nil {
		return nil, err
	}
	member, err := assignmentToDomain(doc.Member)
	if err != nil {
		return nil, err
	}

	var profit *order.Profit
	if doc.Profit != nil {
		p, err := order.NewProfit(doc.Profit.Commission, doc.Profit.ProfitBehindOrder, doc.Profit.MembersProfit)
		if err != nil {
			return nil, err
		}
		profit = &p
	}

	return order.RestoreOrder(doc.ID, doc.OrderType, status, doc.CreatedAt.UTC(), team, member, profit, order.Details{
		CustomerID: doc.CustomerID,
		Source:     doc.Source,
		Coupon:     doc.Coupon,
		Link:       doc.Link,
	})
}

func assignmentToDomain(doc *AssignmentDocument) (*order.Assignment, error) {
	if doc == nil {
		return nil, nil
	}
	var completedAt *time.Time
	if doc.CompletedAt != nil {
		utc := doc.CompletedAt.UTC()
		completedAt = &utc
	}
	a, err := order.RestoreAssignment(doc.ID, doc.Name, doc.AllocatedAt.UTC(), completedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// statusNames lists the stored names of statuses. Assigned matches the legacy name too.
func statusNames(statuses []order.Status) []string {
	names := make([]string, 0, len(statuses)+1)
	for _, s := range statuses {
		names = append(names, s.String())
		if s == order.Assigned {
			names = append(names, legacyAssignedName)
		}
	}
	return names
}
