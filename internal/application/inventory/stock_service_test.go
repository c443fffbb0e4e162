package inventory_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-ledger/internal/application/inventory"
	"github.com/jhoicas/bodega-ledger/internal/domain"
	"github.com/jhoicas/bodega-ledger/internal/domain/entity"
	"github.com/jhoicas/bodega-ledger/internal/domain/repository"
	"github.com/jhoicas/bodega-ledger/internal/infrastructure/memory"
)

const (
	prodID = "prod-1"
	whA    = "wh-a"
	whB    = "wh-b"
)

func newFixture(t *testing.T) (*memory.Repositories, *inventory.StockService) {
	t.Helper()
	repos := memory.New()
	ctx := context.Background()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: prodID, SKU: "SKU-1", Name: "Arroz", ReorderLevel: 5}))
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: whA, Name: "Bodega A"}))
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: whB, Name: "Bodega B"}))
	svc := inventory.NewStockService(repos.TxRunner, repos.Products, repos.Warehouses, zerolog.Nop())
	return repos, svc
}

func quantity(t *testing.T, repos *memory.Repositories, warehouseID string) int64 {
	t.Helper()
	q, err := inventory.NewLedger(repos.Inventory).Get(context.Background(), prodID, warehouseID)
	require.NoError(t, err)
	return q
}

func movements(t *testing.T, repos *memory.Repositories) []*entity.MovementRecord {
	t.Helper()
	list, err := repos.Movements.List(context.Background(), repository.MovementFilter{})
	require.NoError(t, err)
	return list
}

// balance recalcula ΣIN − ΣOUT del historial para un par.
func balance(t *testing.T, repos *memory.Repositories, warehouseID string) int64 {
	t.Helper()
	var total int64
	for _, m := range movements(t, repos) {
		if m.ProductID != prodID || m.WarehouseID != warehouseID {
			continue
		}
		if m.Type == entity.MovementIn {
			total += m.Quantity
		} else {
			total -= m.Quantity
		}
	}
	return total
}

func TestStockService_RecibirVenderTrasladar(t *testing.T) {
	repos, svc := newFixture(t)
	ctx := context.Background()

	res, err := svc.Receive(ctx, inventory.ReceiveInput{ProductID: prodID, WarehouseID: whA, Quantity: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(50), res.QuantityOf(whA))

	res, err = svc.Sell(ctx, inventory.SellInput{ProductID: prodID, WarehouseID: whA, Quantity: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(30), res.QuantityOf(whA))

	res, err = svc.Transfer(ctx, inventory.TransferInput{ProductID: prodID, FromWarehouseID: whA, ToWarehouseID: whB, Quantity: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(20), res.QuantityOf(whA))
	assert.Equal(t, int64(10), res.QuantityOf(whB))
	require.Len(t, res.Movements, 2)
	assert.Equal(t, res.Movements[0].TransactionID, res.Movements[1].TransactionID)

	assert.Equal(t, int64(20), quantity(t, repos, whA))
	assert.Equal(t, int64(10), quantity(t, repos, whB))
	assert.Len(t, movements(t, repos), 4, "IN 50, OUT 20, OUT 10 en A, IN 10 en B")

	assert.Equal(t, quantity(t, repos, whA), balance(t, repos, whA))
	assert.Equal(t, quantity(t, repos, whB), balance(t, repos, whB))
}

func TestStockService_VentaSinStockSuficienteNoCambiaNada(t *testing.T) {
	repos, svc := newFixture(t)
	ctx := context.Background()
	_, err := svc.Receive(ctx, inventory.ReceiveInput{ProductID: prodID, WarehouseID: whA, Quantity: 20})
	require.NoError(t, err)

	_, err = svc.Sell(ctx, inventory.SellInput{ProductID: prodID, WarehouseID: whA, Quantity: 100})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(20), quantity(t, repos, whA))
	assert.Len(t, movements(t, repos), 1)
}

func TestStockService_VentaExactaDejaCero(t *testing.T) {
	repos, svc := newFixture(t)
	ctx := context.Background()
	_, err := svc.Receive(ctx, inventory.ReceiveInput{ProductID: prodID, WarehouseID: whA, Quantity: 20})
	require.NoError(t, err)

	_, err = svc.Sell(ctx, inventory.SellInput{ProductID: prodID, WarehouseID: whA, Quantity: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(0), quantity(t, repos, whA))
}

func TestStockService_TrasladoMismaBodega(t *testing.T) {
	repos, svc := newFixture(t)
	_, err := svc.Transfer(context.Background(), inventory.TransferInput{ProductID: prodID, FromWarehouseID: whA, ToWarehouseID: whA, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrSameWarehouseTransfer)
	assert.Empty(t, movements(t, repos))
}

func TestStockService_CantidadInvalida(t *testing.T) {
	repos, svc := newFixture(t)
	ctx := context.Background()

	for _, q := range []int64{0, -3} {
		_, err := svc.Receive(ctx, inventory.ReceiveInput{ProductID: prodID, WarehouseID: whA, Quantity: q})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
		_, err = svc.Sell(ctx, inventory.SellInput{ProductID: prodID, WarehouseID: whA, Quantity: q})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
		_, err = svc.Transfer(ctx, inventory.TransferInput{ProductID: prodID, FromWarehouseID: whA, ToWarehouseID: whB, Quantity: q})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	}
	assert.Empty(t, movements(t, repos))

	rec, err := repos.Inventory.Get(ctx, prodID, whA)
	require.NoError(t, err)
	assert.Nil(t, rec, "una operación rechazada no crea registros")
}

func TestStockService_ProductoSinRegistro(t *testing.T) {
	repos, svc := newFixture(t)
	ctx := context.Background()

	_, err := svc.Sell(ctx, inventory.SellInput{ProductID: prodID, WarehouseID: whA, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrProductNotStocked)

	_, err = svc.Transfer(ctx, inventory.TransferInput{ProductID: prodID, FromWarehouseID: whA, ToWarehouseID: whB, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrProductNotStocked)

	rec, err := repos.Inventory.Get(ctx, prodID, whB)
	require.NoError(t, err)
	assert.Nil(t, rec, "el destino no se crea si el traslado falla")
}

func TestStockService_TrasladoInsuficienteNoTocaNingunaBodega(t *testing.T) {
	repos, svc := newFixture(t)
	ctx := context.Background()
	_, err := svc.Receive(ctx, inventory.ReceiveInput{ProductID: prodID, WarehouseID: whA, Quantity: 5})
	require.NoError(t, err)
	_, err = svc.Receive(ctx, inventory.ReceiveInput{ProductID: prodID, WarehouseID: whB, Quantity: 3})
	require.NoError(t, err)

	_, err = svc.Transfer(ctx, inventory.TransferInput{ProductID: prodID, FromWarehouseID: whA, ToWarehouseID: whB, Quantity: 6})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(5), quantity(t, repos, whA))
	assert.Equal(t, int64(3), quantity(t, repos, whB))
	assert.Len(t, movements(t, repos), 2)
}

func TestStockService_CatalogoInexistente(t *testing.T) {
	_, svc := newFixture(t)
	ctx := context.Background()

	_, err := svc.Receive(ctx, inventory.ReceiveInput{ProductID: "no-existe", WarehouseID: whA, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Transfer(ctx, inventory.TransferInput{ProductID: prodID, FromWarehouseID: whA, ToWarehouseID: "no-existe", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockService_RecepcionConLote(t *testing.T) {
	repos, svc := newFixture(t)
	ctx := context.Background()
	expiry := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	_, err := svc.Receive(ctx, inventory.ReceiveInput{ProductID: prodID, WarehouseID: whA, Quantity: 3, BatchNumber: "L-01", ExpiryDate: &expiry})
	require.NoError(t, err)

	rec, err := repos.Inventory.Get(ctx, prodID, whA)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "L-01", rec.BatchNumber)
	require.NotNil(t, rec.ExpiryDate)
	assert.True(t, expiry.Equal(*rec.ExpiryDate))
}

// failingInventory falla en la n-ésima llamada a Update.
type failingInventory struct {
	repository.InventoryRepository
	failAt int
	calls  int
}

func (f *failingInventory) Update(ctx context.Context, rec *entity.InventoryRecord) error {
	f.calls++
	if f.calls == f.failAt {
		return errors.New("fallo inyectado al persistir")
	}
	return f.InventoryRepository.Update(ctx, rec)
}

type faultyRunner struct {
	inner  inventory.TxRunner
	failAt int
}

func (r faultyRunner) Run(ctx context.Context, fn func(inventory.TxRepos) error) error {
	return r.inner.Run(ctx, func(repos inventory.TxRepos) error {
		repos.Inventory = &failingInventory{InventoryRepository: repos.Inventory, failAt: r.failAt}
		return fn(repos)
	})
}

func TestStockService_FalloAlAcreditarDestinoRevierteElTraslado(t *testing.T) {
	repos, svc := newFixture(t)
	ctx := context.Background()
	_, err := svc.Receive(ctx, inventory.ReceiveInput{ProductID: prodID, WarehouseID: whA, Quantity: 10})
	require.NoError(t, err)

	faulty := inventory.NewStockService(faultyRunner{inner: repos.TxRunner, failAt: 2}, repos.Products, repos.Warehouses, zerolog.Nop())
	_, err = faulty.Transfer(ctx, inventory.TransferInput{ProductID: prodID, FromWarehouseID: whA, ToWarehouseID: whB, Quantity: 4})
	require.Error(t, err)

	assert.Equal(t, int64(10), quantity(t, repos, whA), "el débito en origen no debe persistir")
	assert.Equal(t, int64(0), quantity(t, repos, whB))
	assert.Len(t, movements(t, repos), 1)
}

func TestStockService_VentasConcurrentesNoSobregiran(t *testing.T) {
	repos, svc := newFixture(t)
	ctx := context.Background()
	_, err := svc.Receive(ctx, inventory.ReceiveInput{ProductID: prodID, WarehouseID: whA, Quantity: 10})
	require.NoError(t, err)

	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, 2)
	)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.Sell(ctx, inventory.SellInput{ProductID: prodID, WarehouseID: whA, Quantity: 6})
		}(i)
	}
	close(start)
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, int64(4), quantity(t, repos, whA))
}

func TestStockService_EntradasConcurrentesNoPierdenActualizaciones(t *testing.T) {
	repos, svc := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Receive(ctx, inventory.ReceiveInput{ProductID: prodID, WarehouseID: whA, Quantity: 1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), quantity(t, repos, whA))
	assert.Equal(t, int64(50), balance(t, repos, whA))
}

func TestStockService_TrasladosCruzadosSinDeadlock(t *testing.T) {
	repos, svc := newFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := svc.Receive(ctx, inventory.ReceiveInput{ProductID: prodID, WarehouseID: whA, Quantity: 100})
	require.NoError(t, err)
	_, err = svc.Receive(ctx, inventory.ReceiveInput{ProductID: prodID, WarehouseID: whB, Quantity: 100})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.Transfer(ctx, inventory.TransferInput{ProductID: prodID, FromWarehouseID: whA, ToWarehouseID: whB, Quantity: 1})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := svc.Transfer(ctx, inventory.TransferInput{ProductID: prodID, FromWarehouseID: whB, ToWarehouseID: whA, Quantity: 1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(200), quantity(t, repos, whA)+quantity(t, repos, whB))
	assert.Equal(t, quantity(t, repos, whA), balance(t, repos, whA))
	assert.Equal(t, quantity(t, repos, whB), balance(t, repos, whB))
}

func TestStockService_SecuenciaAleatoriaCuadraConHistorial(t *testing.T) {
	for _, seed := range []int64{1, 7, 42, 2024} {
		repos, svc := newFixture(t)
		ctx := context.Background()
		rng := rand.New(rand.NewSource(seed))
		whs := []string{whA, whB}

		for i := 0; i < 200; i++ {
			wh := whs[rng.Intn(2)]
			q := int64(rng.Intn(10) + 1)
			var err error
			switch rng.Intn(3) {
			case 0:
				_, err = svc.Receive(ctx, inventory.ReceiveInput{ProductID: prodID, WarehouseID: wh, Quantity: q})
			case 1:
				_, err = svc.Sell(ctx, inventory.SellInput{ProductID: prodID, WarehouseID: wh, Quantity: q})
			default:
				to := whA
				if wh == whA {
					to = whB
				}
				_, err = svc.Transfer(ctx, inventory.TransferInput{ProductID: prodID, FromWarehouseID: wh, ToWarehouseID: to, Quantity: q})
			}
			if err != nil {
				require.ErrorIs(t, err, domain.ErrInsufficientStock, "semilla %d, paso %d", seed, i)
			}
		}

		for _, wh := range whs {
			q := quantity(t, repos, wh)
			assert.GreaterOrEqual(t, q, int64(0))
			assert.Equal(t, balance(t, repos, wh), q, "semilla %d, bodega %s", seed, wh)
		}
	}
}

func TestStockService_EntradaQueDesbordaNoAltera(t *testing.T) {
	repos, svc := newFixture(t)
	ctx := context.Background()

	_, err := svc.Receive(ctx, inventory.ReceiveInput{ProductID: prodID, WarehouseID: whA, Quantity: math.MaxInt64})
	require.NoError(t, err)
	_, err = svc.Receive(ctx, inventory.ReceiveInput{ProductID: prodID, WarehouseID: whA, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Equal(t, int64(math.MaxInt64), quantity(t, repos, whA))
	assert.Len(t, movements(t, repos), 1)
}
