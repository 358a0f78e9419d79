// internal/gateway/queries.go
package gateway

const listingFields = `
      id
      title
      description
      price
      address {
        street
        city
        state
        zipCode
      }
      bedrooms
      bathrooms
      squareFeet
      available
      images {
        exterior
        interior
      }
      amenities`

// Operation names double as metric labels.
const (
	OpHouses                    = "houses"
	OpHouse                     = "house"
	OpHousesByState             = "housesByState"
	OpHousesByZipCode           = "housesByZipCode"
	OpSubmitLeaseApplication    = "submitLeaseApplication"
	OpProcessApplicationPayment = "processApplicationPayment"
)

const (
	queryHouses = `query GetHouses {
    houses {` + listingFields + `
    }
  }`

	queryHouse = `query GetHouse($id: ID!) {
    house(id: $id) {` + listingFields + `
    }
  }`

	queryHousesByState = `query GetHousesByState($state: String!) {
    housesByState(state: $state) {` + listingFields + `
    }
  }`

	queryHousesByZipCode = `query GetHousesByZipCode($zipCode: String!) {
    housesByZipCode(zipCode: $zipCode) {` + listingFields + `
    }
  }`

	mutationSubmitLeaseApplication = `mutation SubmitLeaseApplication($application: LeaseApplicationInput!) {
    submitLeaseApplication(application: $application) {
      id
      status
      paymentStatus
      applicationFee
    }
  }`

	mutationProcessApplicationPayment = `mutation ProcessApplicationPayment($payment: PaymentInput!) {
    processApplicationPayment(payment: $payment) {
      success
      message
      transactionId
    }
  }`
)
