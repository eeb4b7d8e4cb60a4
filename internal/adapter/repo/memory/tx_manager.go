package memory

import "context"

type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()
	cp := t.store.checkpoint()
	if err := fn(ctx); err != nil {
		t.store.restore(cp)
		return err
	}
	return nil
}
