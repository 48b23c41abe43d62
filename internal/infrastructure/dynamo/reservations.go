package dynamo

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/laon-cafe/reservation-api/internal/domain"
)

// ReservationRepo provides typed DynamoDB operations for the reservations table.
type ReservationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewReservationRepo(client *dynamodb.Client, tableName string) *ReservationRepo {
	return &ReservationRepo{client: client, tableName: tableName}
}

func (r *ReservationRepo) Put(ctx context.Context, res *domain.Reservation) error {
	item, err := attributevalue.MarshalMap(res)
	if err != nil {
		return fmt.Errorf("marshal reservation: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// List returns all reservations ordered by reservation_date descending.
// DynamoDB cannot order a Scan, so the ordering happens in memory; fine at
// this table's scale.
func (r *ReservationRepo) List(ctx context.Context) ([]domain.Reservation, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	if err != nil {
		return nil, err
	}
	var reservations []domain.Reservation
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &reservations); err != nil {
		return nil, err
	}
	sortByDateDesc(reservations)
	return reservations, nil
}

// sortByDateDesc orders by reservation_date descending, ties broken by
// created_at descending so the output is stable across calls.
func sortByDateDesc(reservations []domain.Reservation) {
	sort.SliceStable(reservations, func(i, j int) bool {
		if reservations[i].ReservationDate != reservations[j].ReservationDate {
			return reservations[i].ReservationDate > reservations[j].ReservationDate
		}
		return reservations[i].CreatedAt.After(reservations[j].CreatedAt)
	})
}
