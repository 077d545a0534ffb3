package libflat

import "github.com/dgraph-io/badger/v3"

// connSet tracks which saddle connections have already been emitted, so a
// re-enumeration with a larger radius reports each connection exactly once.
// It is an in-memory LSM set; connections serialise to small keys and the
// set can grow far beyond what a comfortable Go map would hold.
type connSet struct {
	db *badger.DB
}

func (set *connSet) autoOpen() {
	if set.db == nil {
		dbOpts := badger.DefaultOptions("").WithInMemory(true)
		dbOpts.Logger = nil
		dbOpts.MetricsEnabled = false

		var err error
		set.db, err = badger.Open(dbOpts)
		if err != nil {
			panic(err)
		}
	}
}

// TryAdd adds the key if it is not already present and reports whether it
// was added.
func (set *connSet) TryAdd(key []byte) bool {
	set.autoOpen()

	txn := set.db.NewTransaction(true)
	defer txn.Commit()

	added := false
	_, err := txn.Get(key)
	if err == nil {
		// no-op since the key is already in the db
	} else if err == badger.ErrKeyNotFound {
		err = txn.Set(key, nil)
		added = true
	}

	if err != nil {
		panic(err)
	}

	return added
}

// Close removes all previously added items from this set.
func (set *connSet) Close() {
	if set.db != nil {
		set.db.Close()
		set.db = nil
	}
}
