package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Distribuidora-api/internal/application/dto"
	"github.com/jhoicas/Distribuidora-api/internal/application/validation"
	"github.com/jhoicas/Distribuidora-api/internal/domain"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// ProductUseCase casos de uso del catálogo. El stock no se edita aquí: pasa por el gestor de stock.
type ProductUseCase struct {
	repo   repository.ProductRepository
	prices repository.PriceGateway
	val    *validation.Validator
	log    zerolog.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, prices repository.PriceGateway, val *validation.Validator, log zerolog.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, prices: prices, val: val, log: log}
}

// Validate lista todas las reglas violadas por el alta de producto.
func (uc *ProductUseCase) Validate(in dto.CreateProductRequest) dto.ValidationResult {
	errs := uc.val.Check(in)
	if errs == nil {
		errs = []string{}
	}
	return dto.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// Create crea un producto. El código es único.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := uc.val.Struct(in); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	p := &entity.Product{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Code:      in.Code,
		Category:  in.Category,
		Price:     in.Price,
		Stock:     in.Stock,
		MinStock:  in.MinStock,
		CostNet:   in.CostNet,
		CostGross: in.CostGross,
		Active:    in.Active == nil || *in.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// Update actualización parcial; (nil, nil) si no existe.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := uc.val.Struct(in); err != nil {
		return nil, err
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	if in.Code != nil && *in.Code != p.Code {
		other, err := uc.repo.GetByCode(ctx, *in.Code)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != p.ID {
			return nil, domain.ErrDuplicate
		}
		p.Code = *in.Code
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.MinStock != nil {
		p.MinStock = *in.MinStock
	}
	if in.CostNet != nil {
		p.CostNet = *in.CostNet
	}
	if in.CostGross != nil {
		p.CostGross = *in.CostGross
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// Search búsqueda por nombre o código (sin distinguir mayúsculas) y categoría.
// Ante un error de lectura devuelve lista vacía y lo loguea.
func (uc *ProductUseCase) Search(ctx context.Context, f repository.ProductFilter) *dto.ProductListResponse {
	page := dto.PageRequest{Limit: f.Limit, Offset: f.Offset}
	page.DefaultPage()
	f.Limit, f.Offset = page.Limit, page.Offset

	resp := &dto.ProductListResponse{Items: []dto.ProductResponse{}, Page: dto.PageResponse{Limit: f.Limit, Offset: f.Offset}}
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		uc.log.Error().Err(err).Str("q", f.Query).Msg("productos: búsqueda falló")
		return resp
	}
	total, err := uc.repo.Count(ctx, f)
	if err != nil {
		uc.log.Warn().Err(err).Msg("productos: conteo falló")
		total = len(list)
	}
	for _, p := range list {
		resp.Items = append(resp.Items, *toProductResponse(p))
	}
	resp.Page.Total = total
	return resp
}

// Delete elimina un producto por ID.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// UpdatePrices actualización masiva en un único procedimiento remoto (todo o nada).
// Si el procedimiento no existe actualiza fila por fila. Precios negativos se rechazan antes de cualquier llamada.
func (uc *ProductUseCase) UpdatePrices(ctx context.Context, items []dto.PriceItem) (*dto.UpdatePricesResponse, error) {
	if err := uc.val.Struct(dto.UpdatePricesRequest{Items: items}); err != nil {
		return nil, err
	}
	updates := make([]repository.PriceUpdate, 0, len(items))
	for _, it := range items {
		updates = append(updates, repository.PriceUpdate{ProductID: it.ProductID, Price: it.Price})
	}

	err := uc.prices.BatchUpdatePrices(ctx, updates)
	if err == nil {
		return &dto.UpdatePricesResponse{Updated: len(updates)}, nil
	}
	if !errors.Is(err, domain.ErrRPCUnavailable) {
		return nil, err
	}

	uc.log.Warn().Int("items", len(updates)).Msg("precios: procedimiento masivo no disponible, actualizando fila por fila")
	for i, u := range updates {
		if err := uc.repo.UpdatePrice(ctx, u.ProductID, u.Price); err != nil {
			return &dto.UpdatePricesResponse{Updated: i, Fallback: true},
				fmt.Errorf("precios: producto %s: %w", u.ProductID, err)
		}
	}
	return &dto.UpdatePricesResponse{Updated: len(updates), Fallback: true}, nil
}

// ResolveCodes mapea códigos de producto a IDs; los códigos desconocidos se devuelven aparte.
func (uc *ProductUseCase) ResolveCodes(ctx context.Context, codes []string) (map[string]string, []string, error) {
	ids := make(map[string]string, len(codes))
	var missing []string
	for _, code := range codes {
		p, err := uc.repo.GetByCode(ctx, code)
		if err != nil {
			return nil, nil, err
		}
		if p == nil {
			missing = append(missing, code)
			continue
		}
		ids[code] = p.ID
	}
	return ids, missing, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Code:      p.Code,
		Category:  p.Category,
		Price:     p.Price,
		Stock:     p.Stock,
		MinStock:  p.MinStock,
		CostNet:   p.CostNet,
		CostGross: p.CostGross,
		Active:    p.Active,
		LowStock:  p.BelowMinimum(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
