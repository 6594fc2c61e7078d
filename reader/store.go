package reader

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rushteam/recbatch/core"
)

// Store 从 KV 存储读取交互数据集。
//
// key 结构（JSON 负载）：
//   - {KeyPrefix}:users          -> []string 用户列表
//   - {KeyPrefix}:user:{userID}  -> map[itemID]value 该用户的反馈
type Store struct {
	Store     core.Store
	KeyPrefix string
	AsBinary  bool
}

// NewStore 创建存储读取器；keyPrefix 为空时取 "interactions"。
func NewStore(s core.Store, keyPrefix string, asBinary bool) *Store {
	if keyPrefix == "" {
		keyPrefix = "interactions"
	}
	return &Store{Store: s, KeyPrefix: keyPrefix, AsBinary: asBinary}
}

// Read 从存储加载全部用户的反馈并构建 Dataset。
// key 缺失或负载不可解析都返回 DATA_LOAD。
func (r *Store) Read(ctx context.Context) (*core.Dataset, error) {
	data, err := r.Store.Get(ctx, r.KeyPrefix+":users")
	if err != nil {
		return nil, core.NewDomainError(core.ModuleReader, core.ErrorCodeDataLoad,
			fmt.Sprintf("reader: load user list from %s: %v", r.Store.Name(), err))
	}

	var users []string
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, core.NewDomainError(core.ModuleReader, core.ErrorCodeDataLoad,
			fmt.Sprintf("reader: decode user list: %v", err))
	}

	keys := make([]string, 0, len(users))
	for _, user := range users {
		keys = append(keys, r.KeyPrefix+":user:"+user)
	}

	payloads, err := r.Store.BatchGet(ctx, keys)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleReader, core.ErrorCodeDataLoad,
			fmt.Sprintf("reader: batch load feedback from %s: %v", r.Store.Name(), err))
	}

	var interactions []core.Interaction
	for _, user := range users {
		payload, ok := payloads[r.KeyPrefix+":user:"+user]
		if !ok {
			continue
		}
		var feedback map[string]float64
		if err := json.Unmarshal(payload, &feedback); err != nil {
			return nil, core.NewDomainError(core.ModuleReader, core.ErrorCodeDataLoad,
				fmt.Sprintf("reader: decode feedback for user %q: %v", user, err))
		}
		for item, value := range feedback {
			interactions = append(interactions, core.Interaction{User: user, Item: item, Value: value})
		}
	}
	return core.NewDataset(interactions, r.AsBinary), nil
}

// Seed 把一批交互写入存储，与 Store.Read 的 key 结构对应。
// 用于离线导入与测试。
func Seed(ctx context.Context, s core.Store, keyPrefix string, interactions []core.Interaction) error {
	if keyPrefix == "" {
		keyPrefix = "interactions"
	}

	feedback := make(map[string]map[string]float64)
	for _, in := range interactions {
		if feedback[in.User] == nil {
			feedback[in.User] = make(map[string]float64)
		}
		feedback[in.User][in.Item] = in.Value
	}

	users := make([]string, 0, len(feedback))
	kvs := make(map[string][]byte, len(feedback)+1)
	for user, items := range feedback {
		users = append(users, user)
		payload, err := json.Marshal(items)
		if err != nil {
			return err
		}
		kvs[keyPrefix+":user:"+user] = payload
	}

	userList, err := json.Marshal(users)
	if err != nil {
		return err
	}
	kvs[keyPrefix+":users"] = userList

	return s.BatchSet(ctx, kvs)
}
