package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Distribuidora-api/internal/application/dto"
	"github.com/jhoicas/Distribuidora-api/internal/application/validation"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// CustomerUseCase casos de uso para clientes.
type CustomerUseCase struct {
	repo repository.CustomerRepository
	val  *validation.Validator
	log  zerolog.Logger
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, val *validation.Validator, log zerolog.Logger) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, val: val, log: log}
}

// Validate nombre y dirección obligatorios, formato de teléfono y email; lista todas las violaciones.
func (uc *CustomerUseCase) Validate(in dto.CreateCustomerRequest) dto.ValidationResult {
	errs := uc.val.Check(in)
	if errs == nil {
		errs = []string{}
	}
	return dto.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// Create crea un nuevo cliente.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := uc.val.Struct(in); err != nil {
		return nil, err
	}
	now := time.Now()
	c := &entity.Customer{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Address:   in.Address,
		Phone:     in.Phone,
		Email:     in.Email,
		TaxID:     in.TaxID,
		Zone:      in.Zone,
		PriceList: in.PriceList,
		Active:    in.Active == nil || *in.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// GetByID obtiene un cliente; (nil, nil) si no existe.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// Update actualización parcial; (nil, nil) si no existe.
func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := uc.val.Struct(in); err != nil {
		return nil, err
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.TaxID != nil {
		c.TaxID = *in.TaxID
	}
	if in.Zone != nil {
		c.Zone = *in.Zone
	}
	if in.PriceList != nil {
		c.PriceList = *in.PriceList
	}
	if in.Active != nil {
		c.Active = *in.Active
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// Search búsqueda en nombre, dirección, teléfono y CUIT, filtrable por zona.
// Ante un error de lectura devuelve lista vacía y lo loguea.
func (uc *CustomerUseCase) Search(ctx context.Context, f repository.CustomerFilter) *dto.CustomerListResponse {
	page := dto.PageRequest{Limit: f.Limit, Offset: f.Offset}
	page.DefaultPage()
	f.Limit, f.Offset = page.Limit, page.Offset

	resp := &dto.CustomerListResponse{Items: []dto.CustomerResponse{}, Page: dto.PageResponse{Limit: f.Limit, Offset: f.Offset}}
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		uc.log.Error().Err(err).Str("q", f.Query).Msg("clientes: búsqueda falló")
		return resp
	}
	total, err := uc.repo.Count(ctx, f)
	if err != nil {
		uc.log.Warn().Err(err).Msg("clientes: conteo falló")
		total = len(list)
	}
	for _, c := range list {
		resp.Items = append(resp.Items, *toCustomerResponse(c))
	}
	resp.Page.Total = total
	return resp
}

// Zones zonas distintas para filtros; vacío ante error de lectura.
func (uc *CustomerUseCase) Zones(ctx context.Context) []string {
	zones, err := uc.repo.Zones(ctx)
	if err != nil {
		uc.log.Error().Err(err).Msg("clientes: zonas falló")
		return []string{}
	}
	return zones
}

// Delete elimina un cliente por ID.
func (uc *CustomerUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	if c == nil {
		return nil
	}
	return &dto.CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Address:   c.Address,
		Phone:     c.Phone,
		Email:     c.Email,
		TaxID:     c.TaxID,
		Zone:      c.Zone,
		PriceList: c.PriceList,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
